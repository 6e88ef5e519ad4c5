package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/sheacronin/locallibrary/catalog"
	"go.uber.org/zap"
)

// maxFormBytes caps a submitted form body.
const maxFormBytes = 1 << 20

type Renderer interface {
	Render(w http.ResponseWriter, status int, view string, data interface{}) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type CatalogHandler struct {
	Catalog *catalog.Service
	Views   Renderer
	Store   Pinger
	Log     *zap.Logger
}

type action func(r *http.Request) (catalog.Result, error)

// serve turns a catalog result into a response.
func (h *CatalogHandler) serve(do action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := do(r)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if res.State == catalog.StateRedirected {
			http.Redirect(w, r, res.Location, http.StatusFound)
			return
		}
		h.render(w, r, http.StatusOK, res.View, res.Data)
	}
}

// submit parses the posted form before handing the request to do.
func (h *CatalogHandler) submit(do action) http.HandlerFunc {
	next := h.serve(do)
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
		if err := r.ParseForm(); err != nil {
			h.fail(w, r, errors.Wrap(errBadForm, err.Error()))
			return
		}
		next(w, r)
	}
}

var errBadForm = errors.New("malformed form body")

func (h *CatalogHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		h.render(w, r, http.StatusNotFound, catalog.ViewError, &catalog.ErrorPage{
			Title:   "Not Found",
			Status:  http.StatusNotFound,
			Message: "The requested record does not exist.",
		})
	case errors.Is(err, errBadForm):
		h.render(w, r, http.StatusBadRequest, catalog.ViewError, &catalog.ErrorPage{
			Title:   "Bad Request",
			Status:  http.StatusBadRequest,
			Message: "The submitted form could not be read.",
		})
	default:
		h.Log.Error("request failed",
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		h.render(w, r, http.StatusInternalServerError, catalog.ViewError, &catalog.ErrorPage{
			Title:   "Error",
			Status:  http.StatusInternalServerError,
			Message: "Something went wrong. Please try again later.",
		})
	}
}

func (h *CatalogHandler) render(w http.ResponseWriter, r *http.Request, status int, view string, data interface{}) {
	if err := h.Views.Render(w, status, view, data); err != nil {
		h.Log.Error("render failed",
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.String("view", view),
			zap.Error(err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *CatalogHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := h.Store.Ping(r.Context()); err != nil {
		h.Log.Warn("health check failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func id(r *http.Request) string { return chi.URLParam(r, "id") }
