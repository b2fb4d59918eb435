// internal/app/features/services/favorite.go
package services

import (
	"context"
	"net/http"

	"github.com/dalemusser/teamhub/internal/app/system/authz"
	"github.com/dalemusser/teamhub/internal/app/system/httpx"
	"github.com/dalemusser/teamhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleFavorite handles PUT /services/{id}/favorite.
func (h *Handler) HandleFavorite(w http.ResponseWriter, r *http.Request) {
	h.setFavorite(w, r, true)
}

// HandleUnfavorite handles DELETE /services/{id}/favorite.
func (h *Handler) HandleUnfavorite(w http.ResponseWriter, r *http.Request) {
	h.setFavorite(w, r, false)
}

func (h *Handler) setFavorite(w http.ResponseWriter, r *http.Request, add bool) {
	callerID, ok := authz.UserCtx(r)
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	svc, ok := h.loadService(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var err error
	if add {
		err = h.Users.AddFavService(ctx, callerID, svc.ID)
	} else {
		err = h.Users.RemoveFavService(ctx, callerID, svc.ID)
	}
	if err != nil {
		h.Log.Error("service favorite update failed",
			zap.String("service_id", svc.ID.Hex()),
			zap.Bool("add", add),
			zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "favorite update failed")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
