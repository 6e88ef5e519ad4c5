package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sheacronin/locallibrary/catalog"
	"github.com/sheacronin/locallibrary/config"
	"github.com/sheacronin/locallibrary/handlers"
	"github.com/sheacronin/locallibrary/logger"
	"github.com/sheacronin/locallibrary/middleware"
	"github.com/sheacronin/locallibrary/service"
	"github.com/sheacronin/locallibrary/store"
	"github.com/sheacronin/locallibrary/store/memstore"
	"github.com/sheacronin/locallibrary/views"
	"go.uber.org/zap"
)

type entityStore interface {
	catalog.Store
	handlers.Pinger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config", zap.Error(err))
	}
	level, _ := cfg.Level()
	log := logger.New(level, "locallibrary")
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st entityStore
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn("using in-memory store; data is lost on exit")
		st = memstore.New()
	default:
		db, err := store.NewMongoDB(ctx, cfg.MongoURI, cfg.DBName, log)
		if err != nil {
			log.Fatal("mongodb", zap.Error(err))
		}
		defer func() {
			if err := db.Disconnect(context.Background()); err != nil {
				log.Error("mongodb disconnect", zap.Error(err))
			}
		}()
		if err := db.EnsureIndexes(ctx); err != nil {
			log.Fatal("mongodb indexes", zap.Error(err))
		}
		st = db
	}

	opts := []catalog.Option{catalog.WithReadTimeout(cfg.ReadTimeout)}
	if cfg.MetadataLookup {
		opts = append(opts, catalog.WithISBNLookup(service.NewMetadataClient("")))
	}
	svc := catalog.NewService(st, log, opts...)

	pages, err := views.New()
	if err != nil {
		log.Fatal("templates", zap.Error(err))
	}
	h := &handlers.CatalogHandler{Catalog: svc, Views: pages, Store: st, Log: log}
	limiter := middleware.NewRateLimiter(ctx, cfg.RateLimitRPS, int(cfg.RateLimitRPS)+1, 5*time.Minute)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(log.Named("http")))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Headers())
	r.Use(limiter.Middleware)
	h.Routes(r)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("server listening", zap.String("addr", server.Addr), zap.String("store", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}
