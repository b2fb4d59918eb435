// internal/app/features/users/profile.go
package users

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/teamhub/internal/app/system/authz"
	"github.com/dalemusser/teamhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/teamhub/internal/app/system/httpx"
	"github.com/dalemusser/teamhub/internal/app/system/timeouts"
	"github.com/dalemusser/teamhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeProfile handles GET /users/me.
//
// Returns the caller's own document plus their group memberships.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	callerID, ok := authz.UserCtx(r)
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpx.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.Log.Error("profile load failed", zap.String("user_id", callerID.Hex()), zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "profile load failed")
		return
	}

	memberships, err := h.Memberships.ListByUser(ctx, callerID)
	if err != nil {
		h.Log.Error("profile membership load failed", zap.String("user_id", callerID.Hex()), zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "profile load failed")
		return
	}
	if memberships == nil {
		memberships = []models.GroupMembership{}
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"user":        u,
		"memberships": memberships,
	})
}

type profileRequest struct {
	FullName  string `json:"full_name"`
	Structure string `json:"structure"`
}

// HandleUpdateProfile handles PATCH /users/me.
// Self-service fields only; email and flags are admin territory.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	callerID, ok := authz.UserCtx(r)
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req profileRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.FullName = htmlsanitize.StripAll(strings.TrimSpace(req.FullName))
	req.Structure = htmlsanitize.StripAll(strings.TrimSpace(req.Structure))
	if req.FullName == "" {
		httpx.Error(w, http.StatusBadRequest, "full name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, callerID, req.FullName, req.Structure); err != nil {
		h.Log.Error("profile update failed", zap.String("user_id", callerID.Hex()), zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "profile update failed")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
