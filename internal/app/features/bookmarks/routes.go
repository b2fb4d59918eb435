// internal/app/features/bookmarks/routes.go
package bookmarks

import (
	"github.com/dalemusser/teamhub/internal/app/system/auth"
	"github.com/dalemusser/teamhub/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager, rl *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireActive)
		pr.Use(rl.Middleware)

		pr.Patch("/{id}", h.HandleUpdateBookmark)
		pr.Delete("/{id}", h.HandleDeleteBookmark)
	})

	return r
}
