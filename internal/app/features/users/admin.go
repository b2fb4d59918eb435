// internal/app/features/users/admin.go
package users

import (
	"context"
	"net/http"

	"github.com/dalemusser/teamhub/internal/app/system/httpx"
	"github.com/dalemusser/teamhub/internal/app/system/timeouts"
	"github.com/dalemusser/teamhub/internal/domain/models"
	"go.uber.org/zap"
)

// ServeRequestsList handles GET /users/requests.
// Lists accounts awaiting approval, oldest first.
func (h *Handler) ServeRequestsList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Users.ListRequests(ctx)
	if err != nil {
		h.Log.Error("signup request list failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "request list failed")
		return
	}
	if rows == nil {
		rows = []models.User{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"requests": rows})
}

// HandleApprove handles POST /users/{id}/approve.
// Clears is_request and activates the account so it can log in.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	u, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.SetActive(ctx, u.ID, true); err != nil {
		h.Log.Error("user approve failed", zap.String("user_id", u.ID.Hex()), zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "approval failed")
		return
	}

	h.Log.Info("signup request approved", zap.String("user_id", u.ID.Hex()), zap.String("email", u.Email))
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type activeRequest struct {
	Active bool `json:"active"`
}

// HandleSetActive handles PUT /users/{id}/active.
// Deactivated accounts fail every authenticated operation on their next
// request; no session invalidation step is needed because the session
// user is re-read from the store per request.
func (h *Handler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	u, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	var req activeRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.SetActive(ctx, u.ID, req.Active); err != nil {
		h.Log.Error("user active flag update failed", zap.String("user_id", u.ID.Hex()), zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "update failed")
		return
	}

	h.Log.Info("user active flag changed",
		zap.String("user_id", u.ID.Hex()),
		zap.Bool("active", req.Active))
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type adminRequest struct {
	Admin bool `json:"admin"`
}

// HandleSetAdmin handles PUT /users/{id}/admin.
func (h *Handler) HandleSetAdmin(w http.ResponseWriter, r *http.Request) {
	u, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	var req adminRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.SetAdmin(ctx, u.ID, req.Admin); err != nil {
		h.Log.Error("user admin flag update failed", zap.String("user_id", u.ID.Hex()), zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "update failed")
		return
	}

	h.Log.Info("user admin flag changed",
		zap.String("user_id", u.ID.Hex()),
		zap.Bool("admin", req.Admin))
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type quotaRequest struct {
	Quota int `json:"quota"`
}

// HandleSetQuota handles PUT /users/{id}/quota.
func (h *Handler) HandleSetQuota(w http.ResponseWriter, r *http.Request) {
	u, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	var req quotaRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quota < 0 {
		httpx.Error(w, http.StatusBadRequest, "quota must be non-negative")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.SetQuota(ctx, u.ID, req.Quota); err != nil {
		h.Log.Error("user quota update failed", zap.String("user_id", u.ID.Hex()), zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "update failed")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// HandleDeleteUser handles DELETE /users/{id}.
//
// Removal cascades: membership rows are dropped, groups the user owned
// keep running with no owner, and the account document is removed. The
// cascade steps are independent writes; a failed step is logged and the
// rest still run.
func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	u, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	// Snapshot memberships before the cascade so the directory mirror
	// knows which groups to detach the account from.
	memberships, err := h.Memberships.ListByUser(ctx, u.ID)
	if err != nil {
		h.Log.Warn("user delete: membership snapshot failed", zap.String("user_id", u.ID.Hex()), zap.Error(err))
	}

	deleted, err := h.Users.Delete(ctx, u.ID)
	if err != nil {
		h.Log.Error("user delete failed", zap.String("user_id", u.ID.Hex()), zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "user removal failed")
		return
	}
	if deleted == 0 {
		httpx.Error(w, http.StatusNotFound, "user not found")
		return
	}

	if _, err := h.Memberships.DeleteByUser(ctx, u.ID); err != nil {
		h.Log.Error("user delete: membership cascade failed", zap.String("user_id", u.ID.Hex()), zap.Error(err))
	}
	if _, err := h.Groups.ClearOwner(ctx, u.ID); err != nil {
		h.Log.Error("user delete: owner detach failed", zap.String("user_id", u.ID.Hex()), zap.Error(err))
	}
	for _, m := range memberships {
		if m.Role != models.RoleMember {
			continue
		}
		if g, err := h.Groups.GetByID(ctx, m.GroupID); err == nil {
			h.Directory.RemoveUserFromGroup(ctx, u.Email, g.Slug)
		}
	}

	h.Log.Info("user removed", zap.String("user_id", u.ID.Hex()), zap.String("email", u.Email))
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
