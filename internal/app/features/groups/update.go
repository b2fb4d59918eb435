// internal/app/features/groups/update.go
package groups

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/teamhub/internal/app/policy"
	groupstore "github.com/dalemusser/teamhub/internal/app/store/groups"
	"github.com/dalemusser/teamhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/teamhub/internal/app/system/httpx"
	"github.com/dalemusser/teamhub/internal/app/system/timeouts"
	"github.com/dalemusser/teamhub/internal/domain/models"
	"go.uber.org/zap"
)

type updateRequest struct {
	Name        *string `json:"name"`
	Type        *int    `json:"type"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	Avatar      *string `json:"avatar"`
}

// infoOnly reports whether the request touches only the fields an
// animator may change.
func (u updateRequest) infoOnly() bool {
	return u.Name == nil && u.Type == nil
}

// HandleUpdateGroup handles PATCH /groups/{id}.
//
// Animators may change description, content, and avatar; renaming the
// group or changing its type requires a group admin, the owner, or a
// global admin.
func (h *Handler) HandleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	g, ok := h.loadGroup(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Type != nil && !models.ValidGroupType(*req.Type) {
		httpx.Error(w, http.StatusBadRequest, "invalid group type")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	cap := policy.CapGroupEdit
	if req.infoOnly() {
		cap = policy.CapGroupEditInfo
	}
	allowed, err := h.Policy.Check(ctx, r, cap, policy.Target{GroupID: g.ID, OwnerID: g.OwnerID})
	if err != nil {
		h.Log.Error("group update: authorization check failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "group update failed")
		return
	}
	if !allowed {
		httpx.Error(w, http.StatusForbidden, policy.ReasonNotPermitted)
		return
	}

	if req.Description != nil {
		clean := htmlsanitize.StripAll(*req.Description)
		req.Description = &clean
	}
	if req.Content != nil {
		clean := htmlsanitize.Sanitize(*req.Content)
		req.Content = &clean
	}

	info := groupstore.InfoUpdate{
		Description: req.Description,
		Content:     req.Content,
		Avatar:      req.Avatar,
	}
	if req.infoOnly() {
		err = h.Groups.UpdateInfo(ctx, g.ID, info)
	} else {
		err = h.Groups.UpdateFull(ctx, g.ID, groupstore.FullUpdate{
			InfoUpdate: info,
			Name:       req.Name,
			Type:       req.Type,
		})
	}
	if err != nil {
		if errors.Is(err, groupstore.ErrDuplicateGroupName) {
			httpx.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("group update failed", zap.String("group_id", g.ID.Hex()), zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "group update failed")
		return
	}

	// Renames change the slug the directory knows the group by.
	if req.Name != nil {
		updated, err := h.Groups.GetByID(ctx, g.ID)
		if err == nil && updated.Slug != g.Slug {
			h.Directory.DeleteGroup(ctx, g.Slug)
			h.Directory.CreateGroup(ctx, updated.Slug)
		}
	}

	updated, err := h.Groups.GetByID(ctx, g.ID)
	if err != nil {
		httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}
