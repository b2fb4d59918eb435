// internal/app/features/groups/favorite.go
package groups

import (
	"context"
	"net/http"

	"github.com/dalemusser/teamhub/internal/app/system/authz"
	"github.com/dalemusser/teamhub/internal/app/system/httpx"
	"github.com/dalemusser/teamhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleFavorite handles PUT /groups/{id}/favorite.
// Favoriting an already-favorited group is a no-op ($addToSet).
func (h *Handler) HandleFavorite(w http.ResponseWriter, r *http.Request) {
	h.setFavorite(w, r, true)
}

// HandleUnfavorite handles DELETE /groups/{id}/favorite.
func (h *Handler) HandleUnfavorite(w http.ResponseWriter, r *http.Request) {
	h.setFavorite(w, r, false)
}

func (h *Handler) setFavorite(w http.ResponseWriter, r *http.Request, add bool) {
	callerID, ok := authz.UserCtx(r)
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	g, ok := h.loadGroup(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var err error
	if add {
		err = h.Users.AddFavGroup(ctx, callerID, g.ID)
	} else {
		err = h.Users.RemoveFavGroup(ctx, callerID, g.ID)
	}
	if err != nil {
		h.Log.Error("group favorite update failed",
			zap.String("group_id", g.ID.Hex()),
			zap.Bool("add", add),
			zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "favorite update failed")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
