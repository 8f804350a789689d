package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/gophdrive/internal/logging"
)

type RouterOptions struct {
	MaxRequestBodyBytes int64
}

// NewRouter wires every endpoint. Everything under /folders and /files
// requires a bearer token.
func NewRouter(h *Handler, health *HealthHandler, gate Authenticator, logger logging.Logger, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Observe(logger.With("module", "http")))
	r.Use(middleware.Recoverer)
	r.Use(LimitBody(opts.MaxRequestBodyBytes))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeInvalidInput, "method not allowed")
	})

	r.Get("/health/live", health.Live)
	r.Get("/health/ready", health.Ready)
	r.Get("/metrics", health.Metrics)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(gate, logger))

		r.Route("/folders", func(r chi.Router) {
			r.Get("/", h.ListRoot)
			r.Post("/", h.CreateFolder)
			r.Get("/{id}", h.GetFolder)
			r.Patch("/{id}", h.RenameFolder)
			r.Delete("/{id}", h.DeleteFolder)
			r.Patch("/{id}/move", h.MoveFolder)
		})

		r.Route("/files", func(r chi.Router) {
			r.Post("/", h.UploadFile)
			r.Get("/{id}", h.GetFileMetadata)
			r.Patch("/{id}", h.RenameFile)
			r.Delete("/{id}", h.DeleteFile)
			r.Get("/{id}/download", h.DownloadFile)
			r.Patch("/{id}/move", h.MoveFile)
		})
	})

	return r
}
