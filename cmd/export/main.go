// Command export writes a JSON snapshot of the catalog to S3.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sheacronin/locallibrary/config"
	"github.com/sheacronin/locallibrary/logger"
	"github.com/sheacronin/locallibrary/service"
	"github.com/sheacronin/locallibrary/store"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	level, _ := cfg.Level()
	log := logger.New(level, "export")
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("export failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if cfg.StoreDriver != config.DriverMongo {
		return fmt.Errorf("export reads from mongo; STORE_DRIVER is %q", cfg.StoreDriver)
	}
	db, err := store.NewMongoDB(ctx, cfg.MongoURI, cfg.DBName, log)
	if err != nil {
		return err
	}
	defer db.Disconnect(context.Background())

	s3svc, err := service.NewS3Service(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3AccessKeyID, cfg.S3SecretKey)
	if err != nil {
		return err
	}
	key, err := service.NewExporter(db, s3svc, log).Export(ctx)
	if err != nil {
		return err
	}
	link, err := s3svc.PresignedGetURL(ctx, key, time.Hour)
	if err != nil {
		return err
	}
	fmt.Println(link)
	return nil
}
