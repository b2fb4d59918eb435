// internal/app/features/groups/roles.go
package groups

import (
	"context"
	"errors"
	"net/http"

	membershipstore "github.com/dalemusser/teamhub/internal/app/store/memberships"
	"github.com/dalemusser/teamhub/internal/app/system/httpx"
	"github.com/dalemusser/teamhub/internal/app/system/timeouts"
	"github.com/dalemusser/teamhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type roleRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// HandleSetRole handles POST /groups/{id}/roles.
//
// Who may grant what:
//   - any active user may join an open group as member, or apply to a
//     moderated group as candidate
//   - group admins, animators, the owner, and global admins manage
//     members and candidates
//   - admin and animator roles are granted only by group admins, the
//     owner, or global admins
//
// Granting member to a candidate promotes them: the candidate row is
// removed in the same operation. Granting a role someone already holds
// is a no-op success.
func (h *Handler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	g, ok := h.loadGroup(w, r)
	if !ok {
		return
	}

	var req roleRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	targetID, ok := parseUserID(w, req.UserID)
	if !ok {
		return
	}
	if !models.ValidRole(req.Role) {
		httpx.Error(w, http.StatusBadRequest, "invalid role")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	allowed, reason, err := h.Policy.CanSetRole(ctx, r, g, targetID, req.Role)
	if err != nil {
		h.Log.Error("set role: authorization check failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "role change failed")
		return
	}
	if !allowed {
		httpx.Error(w, http.StatusForbidden, reason)
		return
	}

	if err := h.Memberships.SetRole(ctx, g.ID, targetID, req.Role); err != nil {
		if errors.Is(err, membershipstore.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, err.Error())
			return
		}
		h.Log.Error("set role failed",
			zap.String("group_id", g.ID.Hex()),
			zap.String("user_id", targetID.Hex()),
			zap.String("role", req.Role),
			zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "role change failed")
		return
	}

	h.mirrorRoleChange(ctx, g, targetID, req.Role, true)

	h.Log.Info("role set",
		zap.String("group_id", g.ID.Hex()),
		zap.String("user_id", targetID.Hex()),
		zap.String("role", req.Role))

	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// HandleUnsetRole handles DELETE /groups/{id}/roles.
//
// Users may always shed their own member or candidate role. Removing a
// role nobody holds is a no-op success.
func (h *Handler) HandleUnsetRole(w http.ResponseWriter, r *http.Request) {
	g, ok := h.loadGroup(w, r)
	if !ok {
		return
	}

	var req roleRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	targetID, ok := parseUserID(w, req.UserID)
	if !ok {
		return
	}
	if !models.ValidRole(req.Role) {
		httpx.Error(w, http.StatusBadRequest, "invalid role")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	allowed, reason, err := h.Policy.CanUnsetRole(ctx, r, g, targetID, req.Role)
	if err != nil {
		h.Log.Error("unset role: authorization check failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "role change failed")
		return
	}
	if !allowed {
		httpx.Error(w, http.StatusForbidden, reason)
		return
	}

	if err := h.Memberships.UnsetRole(ctx, g.ID, targetID, req.Role); err != nil {
		h.Log.Error("unset role failed",
			zap.String("group_id", g.ID.Hex()),
			zap.String("user_id", targetID.Hex()),
			zap.String("role", req.Role),
			zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "role change failed")
		return
	}

	h.mirrorRoleChange(ctx, g, targetID, req.Role, false)

	h.Log.Info("role unset",
		zap.String("group_id", g.ID.Hex()),
		zap.String("user_id", targetID.Hex()),
		zap.String("role", req.Role))

	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// mirrorRoleChange pushes a membership change into the directory.
// Member grants map to directory group membership; admin and animator
// grants map to realm roles. Candidate rows stay local. Best-effort.
func (h *Handler) mirrorRoleChange(ctx context.Context, g models.Group, userID primitive.ObjectID, role string, granted bool) {
	if role == models.RoleCandidate {
		return
	}
	target, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		h.Log.Warn("directory mirror: target user lookup failed",
			zap.String("user_id", userID.Hex()), zap.Error(err))
		return
	}

	switch role {
	case models.RoleMember:
		if granted {
			h.Directory.AddUserToGroup(ctx, target.Email, g.Slug)
		} else {
			h.Directory.RemoveUserFromGroup(ctx, target.Email, g.Slug)
		}
	case models.RoleAdmin, models.RoleAnimator:
		dirRole := g.Slug + ":" + role
		if granted {
			h.Directory.GrantRole(ctx, target.Email, dirRole)
		} else {
			h.Directory.RevokeRole(ctx, target.Email, dirRole)
		}
	}
}
