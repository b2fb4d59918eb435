// internal/app/features/authn/logout.go
package authn

import (
	"net/http"

	"github.com/dalemusser/teamhub/internal/app/system/auth"
	"github.com/dalemusser/teamhub/internal/app/system/httpx"
	"go.uber.org/zap"
)

// HandleLogout handles POST /auth/logout. Always succeeds; signing out
// of a dead session is a no-op.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		h.Log.Info("user logged out", zap.String("user_id", u.ID))
	}
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("logout: session clear failed", zap.Error(err))
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
