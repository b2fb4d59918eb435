// internal/app/features/groups/routes.go
package groups

import (
	"github.com/dalemusser/teamhub/internal/app/system/auth"
	"github.com/dalemusser/teamhub/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager, rl *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	// Everything under /groups requires an active account; mutations are
	// additionally rate limited per client.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireActive)
		pr.Use(rl.Middleware)

		// LIST / VIEW
		pr.Get("/", h.ServeGroupsList)
		pr.Get("/{id}", h.ServeGroupView)

		// CREATE / EDIT / DELETE
		pr.Post("/", h.HandleCreateGroup)
		pr.Patch("/{id}", h.HandleUpdateGroup)
		pr.Delete("/{id}", h.HandleDeleteGroup)

		// ROLES (members, candidates, animators, admins)
		pr.Post("/{id}/roles", h.HandleSetRole)
		pr.Delete("/{id}/roles", h.HandleUnsetRole)

		// FAVORITES
		pr.Put("/{id}/favorite", h.HandleFavorite)
		pr.Delete("/{id}/favorite", h.HandleUnfavorite)

		// MEETING ROOM
		pr.Post("/{id}/meeting", h.HandleCreateMeeting)
		pr.Get("/{id}/meeting", h.HandleMeetingStatus)

		// BOOKMARKS (nested under the owning group)
		pr.Get("/{id}/bookmarks", h.ServeBookmarksList)
		pr.Post("/{id}/bookmarks", h.HandleCreateBookmark)
	})

	return r
}
