// internal/app/features/groups/view.go
package groups

import (
	"context"
	"net/http"

	"github.com/dalemusser/teamhub/internal/app/system/httpx"
	"github.com/dalemusser/teamhub/internal/app/system/timeouts"
	"github.com/dalemusser/teamhub/internal/domain/models"
	"go.uber.org/zap"
)

type viewResponse struct {
	models.Group
	Membership models.MemberView `json:"membership"`
}

// ServeGroupView handles GET /groups/{id}.
//
// The membership arrays are derived from the membership rows at read
// time; the group document itself carries no member lists.
func (h *Handler) ServeGroupView(w http.ResponseWriter, r *http.Request) {
	g, ok := h.loadGroup(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	view, err := h.Memberships.MemberView(ctx, g.ID)
	if err != nil {
		h.Log.Error("group view: membership load failed", zap.String("group_id", g.ID.Hex()), zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "group load failed")
		return
	}

	httpx.JSON(w, http.StatusOK, viewResponse{Group: g, Membership: view})
}
