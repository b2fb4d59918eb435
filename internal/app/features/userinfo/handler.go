// internal/app/features/userinfo/handler.go
package userinfo

import (
	"net/http"

	"github.com/dalemusser/teamhub/internal/app/system/auth"
	"github.com/dalemusser/teamhub/internal/app/system/httpx"
)

// Handler serves user information for authenticated sessions.
type Handler struct{}

// NewHandler creates a new userinfo handler.
func NewHandler() *Handler {
	return &Handler{}
}

// ServeUserInfo returns JSON with the current user's authentication
// status and identity.
//
// Response format:
//
//	{ "isAuthenticated": bool, "name": "...", "email": "...", "is_admin": bool }
func (h *Handler) ServeUserInfo(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"isAuthenticated": false,
			"name":            "",
			"email":           "",
			"is_admin":        false,
		})
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"isAuthenticated": true,
		"name":            user.Name,
		"email":           user.Email,
		"is_admin":        user.IsAdmin,
	})
}
