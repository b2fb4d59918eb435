// internal/app/features/groups/create.go
package groups

import (
	"context"
	"errors"
	"net/http"
	"strings"

	groupstore "github.com/dalemusser/teamhub/internal/app/store/groups"
	userstore "github.com/dalemusser/teamhub/internal/app/store/users"
	"github.com/dalemusser/teamhub/internal/app/system/auth"
	"github.com/dalemusser/teamhub/internal/app/system/authz"
	"github.com/dalemusser/teamhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/teamhub/internal/app/system/httpx"
	"github.com/dalemusser/teamhub/internal/app/system/timeouts"
	"github.com/dalemusser/teamhub/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type createRequest struct {
	Name        string `json:"name"`
	Type        int    `json:"type"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Avatar      string `json:"avatar"`
}

// HandleCreateGroup handles POST /groups.
//
// Creation is gated by the caller's group quota, claimed atomically
// before the insert and released again if the insert fails. The creator
// becomes the group's owner and receives the admin, animator, and
// member roles; the new group is added to their favorites and mirrored
// into the directory.
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	callerID, ok := authz.UserCtx(r)
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		httpx.Error(w, http.StatusBadRequest, "group name is required")
		return
	}
	if !models.ValidGroupType(req.Type) {
		httpx.Error(w, http.StatusBadRequest, "invalid group type")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// Claim a quota slot before inserting anything.
	if err := h.Users.IncGroupCount(ctx, callerID); err != nil {
		if errors.Is(err, userstore.ErrQuotaReached) {
			httpx.Error(w, http.StatusForbidden, err.Error())
			return
		}
		h.Log.Error("group create: quota claim failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "group creation failed")
		return
	}

	g, err := h.Groups.Create(ctx, models.Group{
		Name:               req.Name,
		Type:               req.Type,
		Description:        htmlsanitize.StripAll(req.Description),
		Content:            htmlsanitize.Sanitize(req.Content),
		Avatar:             req.Avatar,
		OwnerID:            callerID,
		MeetingAttendeePW:  uuid.New().String(),
		MeetingModeratorPW: uuid.New().String(),
	})
	if err != nil {
		if decErr := h.Users.DecGroupCount(ctx, callerID); decErr != nil {
			h.Log.Error("group create: quota rollback failed", zap.Error(decErr))
		}
		if errors.Is(err, groupstore.ErrDuplicateGroupName) {
			httpx.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("group create failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "group creation failed")
		return
	}

	// The creator governs and participates in their own group.
	for _, role := range []string{models.RoleAdmin, models.RoleAnimator, models.RoleMember} {
		if err := h.Memberships.SetRole(ctx, g.ID, callerID, role); err != nil {
			h.Log.Error("group create: owner role grant failed",
				zap.String("group_id", g.ID.Hex()),
				zap.String("role", role),
				zap.Error(err))
		}
	}
	if err := h.Users.AddFavGroup(ctx, callerID, g.ID); err != nil {
		h.Log.Warn("group create: auto-favorite failed", zap.Error(err))
	}

	h.mirrorCreate(ctx, r, g)

	h.Log.Info("group created",
		zap.String("group_id", g.ID.Hex()),
		zap.String("slug", g.Slug),
		zap.String("owner_id", callerID.Hex()))

	httpx.JSON(w, http.StatusCreated, g)
}

// mirrorCreate pushes the new group and the creator's membership into
// the external directory. Best-effort only.
func (h *Handler) mirrorCreate(ctx context.Context, r *http.Request, g models.Group) {
	h.Directory.CreateGroup(ctx, g.Slug)
	if u, ok := auth.CurrentUser(r); ok {
		h.Directory.AddUserToGroup(ctx, u.Email, g.Slug)
	}
}
