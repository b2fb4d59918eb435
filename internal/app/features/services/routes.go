// internal/app/features/services/routes.go
package services

import (
	"github.com/dalemusser/teamhub/internal/app/system/auth"
	"github.com/dalemusser/teamhub/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager, rl *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	// CATALOG (any active user)
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireActive)
		pr.Use(rl.Middleware)

		pr.Get("/", h.ServeServicesList)
		pr.Get("/{id}", h.ServeServiceView)
		pr.Put("/{id}/favorite", h.HandleFavorite)
		pr.Delete("/{id}/favorite", h.HandleUnfavorite)
	})

	// ADMINISTRATION
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireAdmin)
		pr.Use(rl.Middleware)

		pr.Post("/", h.HandleCreateService)
		pr.Patch("/{id}", h.HandleUpdateService)
		pr.Delete("/{id}", h.HandleDeleteService)
	})

	return r
}
