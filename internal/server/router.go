package server

import (
	"net/http"

	"github.com/cloo-solutions/simsearch/internal/api"
	"github.com/cloo-solutions/simsearch/internal/api/handlers"
	"github.com/cloo-solutions/simsearch/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	PrincipalResolver middleware.PrincipalResolver
	// PrincipalHeader names the trusted upstream identity header.
	PrincipalHeader string
	SearchHandler   *handlers.SearchHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.PrincipalAuth(cfg.PrincipalResolver, cfg.PrincipalHeader))

		r.Route("/search", func(r chi.Router) {
			r.Get("/", cfg.SearchHandler.Search)
			r.Get("/history", cfg.SearchHandler.History)
			r.Get("/suggestions", cfg.SearchHandler.Suggestions)
		})
	})

	return r
}
