package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/veslatte/clipdex/internal/catalog"
	"github.com/veslatte/clipdex/internal/settings"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(engine *catalog.Engine, store *settings.Store, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(engine, store)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Catalog view and refresh control.
	r.Get("/catalog", h.GetCatalog)
	r.Post("/catalog/refresh", h.RefreshCatalog)
	r.Get("/catalog/status", h.CatalogStatus)
	r.Put("/catalog/read", h.SetRead)

	// Exclusion rules.
	r.Get("/exclusions", h.ListExclusions)
	r.Post("/exclusions", h.AddExclusion)
	r.Delete("/exclusions", h.RemoveExclusion)
	r.Delete("/exclusions/all", h.ClearExclusions)

	// Mutable engine settings.
	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.UpdateSettings)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
