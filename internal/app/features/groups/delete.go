// internal/app/features/groups/delete.go
package groups

import (
	"context"
	"net/http"

	"github.com/dalemusser/teamhub/internal/app/policy"
	"github.com/dalemusser/teamhub/internal/app/system/httpx"
	"github.com/dalemusser/teamhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleDeleteGroup handles DELETE /groups/{id}.
//
// Deleting a group cascades: membership rows, the group's bookmarks,
// and every user's favorite reference are removed, then the group
// document itself, the owner's quota slot, and the directory mirror.
// The cascade steps are independent writes; a failed step is logged and
// the rest still run. The document is removed after the row cascades so
// an interrupted delete leaves a findable group rather than orphan
// rows.
func (h *Handler) HandleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	g, ok := h.loadGroup(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	allowed, err := h.Policy.Check(ctx, r, policy.CapGroupDelete, policy.Target{GroupID: g.ID, OwnerID: g.OwnerID})
	if err != nil {
		h.Log.Error("group delete: authorization check failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "group deletion failed")
		return
	}
	if !allowed {
		httpx.Error(w, http.StatusForbidden, policy.ReasonNotPermitted)
		return
	}

	if _, err := h.Memberships.DeleteByGroup(ctx, g.ID); err != nil {
		h.Log.Error("group delete: membership cascade failed", zap.String("group_id", g.ID.Hex()), zap.Error(err))
	}
	if _, err := h.Bookmarks.DeleteByGroup(ctx, g.ID); err != nil {
		h.Log.Error("group delete: bookmark cascade failed", zap.String("group_id", g.ID.Hex()), zap.Error(err))
	}
	if _, err := h.Users.PullGroupFromAllFavorites(ctx, g.ID); err != nil {
		h.Log.Error("group delete: favorites cascade failed", zap.String("group_id", g.ID.Hex()), zap.Error(err))
	}

	deleted, err := h.Groups.Delete(ctx, g.ID)
	if err != nil {
		h.Log.Error("group delete failed", zap.String("group_id", g.ID.Hex()), zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "group deletion failed")
		return
	}
	if deleted == 0 {
		httpx.Error(w, http.StatusNotFound, "group not found")
		return
	}

	if g.OwnerID != primitive.NilObjectID {
		if err := h.Users.DecGroupCount(ctx, g.OwnerID); err != nil {
			h.Log.Warn("group delete: quota release failed", zap.String("owner_id", g.OwnerID.Hex()), zap.Error(err))
		}
	}
	h.Directory.DeleteGroup(ctx, g.Slug)

	h.Log.Info("group deleted", zap.String("group_id", g.ID.Hex()), zap.String("slug", g.Slug))

	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
