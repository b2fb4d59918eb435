// internal/app/features/services/list.go
package services

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/teamhub/internal/app/system/authz"
	"github.com/dalemusser/teamhub/internal/app/system/httpx"
	"github.com/dalemusser/teamhub/internal/app/system/timeouts"
	"github.com/dalemusser/teamhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

// ServeServicesList handles GET /services.
//
// Query param: state (optional numeric filter, admin only). Non-admin
// callers always get the active services; inactive and maintenance
// entries are visible only to global admins.
func (h *Handler) ServeServicesList(w http.ResponseWriter, r *http.Request) {
	var state *int
	if authz.IsAdmin(r) {
		if raw := query.Get(r, "state"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || !models.ValidServiceState(n) {
				httpx.Error(w, http.StatusBadRequest, "invalid service state")
				return
			}
			state = &n
		}
	} else {
		active := models.ServiceStateActive
		state = &active
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Services.List(ctx, state)
	if err != nil {
		h.Log.Error("service list failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "service list failed")
		return
	}
	if rows == nil {
		rows = []models.Service{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"services": rows})
}

// ServeServiceView handles GET /services/{id}.
func (h *Handler) ServeServiceView(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.loadService(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, svc)
}
