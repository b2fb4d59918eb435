// internal/app/features/groups/list.go
package groups

import (
	"context"
	"net/http"

	"github.com/dalemusser/teamhub/internal/app/system/httpx"
	"github.com/dalemusser/teamhub/internal/app/system/paging"
	"github.com/dalemusser/teamhub/internal/app/system/timeouts"
	"github.com/dalemusser/teamhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type listResponse struct {
	Groups     []models.Group `json:"groups"`
	PrevCursor string         `json:"prev_cursor,omitempty"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// ServeGroupsList handles GET /groups.
//
// Query params: q (name prefix search), before/after (keyset cursors).
func (h *Handler) ServeGroupsList(w http.ResponseWriter, r *http.Request) {
	search := query.Get(r, "q")
	before := query.Get(r, "before")
	after := query.Get(r, "after")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Groups.List(ctx, search, paging.ConfigureKeyset(before, after))
	if err != nil {
		h.Log.Error("group list failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "group list failed")
		return
	}

	paging.TrimPage(&rows, before, after)
	if before != "" {
		paging.Reverse(rows)
	}
	prev, next := paging.BuildCursors(rows,
		func(g models.Group) string { return g.NameCI },
		func(g models.Group) primitive.ObjectID { return g.ID })

	httpx.JSON(w, http.StatusOK, listResponse{Groups: rows, PrevCursor: prev, NextCursor: next})
}
