// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/teamhub/internal/app/system/auth"
	"github.com/dalemusser/teamhub/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager, rl *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	// SELF-SERVICE
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireActive)
		pr.Use(rl.Middleware)

		pr.Get("/me", h.ServeProfile)
		pr.Patch("/me", h.HandleUpdateProfile)
	})

	// ADMINISTRATION
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireAdmin)
		pr.Use(rl.Middleware)

		pr.Get("/requests", h.ServeRequestsList)
		pr.Post("/{id}/approve", h.HandleApprove)
		pr.Put("/{id}/active", h.HandleSetActive)
		pr.Put("/{id}/admin", h.HandleSetAdmin)
		pr.Put("/{id}/quota", h.HandleSetQuota)
		pr.Delete("/{id}", h.HandleDeleteUser)
	})

	return r
}
