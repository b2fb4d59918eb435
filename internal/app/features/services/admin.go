// internal/app/features/services/admin.go
package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	servicestore "github.com/dalemusser/teamhub/internal/app/store/services"
	"github.com/dalemusser/teamhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/teamhub/internal/app/system/httpx"
	"github.com/dalemusser/teamhub/internal/app/system/timeouts"
	"github.com/dalemusser/teamhub/internal/domain/models"
	"go.uber.org/zap"
)

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Logo        string `json:"logo"`
	State       int    `json:"state"`
}

// HandleCreateService handles POST /services. Admin only.
func (h *Handler) HandleCreateService(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.URL = strings.TrimSpace(req.URL)
	if req.Title == "" || req.URL == "" {
		httpx.Error(w, http.StatusBadRequest, "title and url are required")
		return
	}
	if !models.ValidServiceState(req.State) {
		httpx.Error(w, http.StatusBadRequest, "invalid service state")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	svc, err := h.Services.Create(ctx, models.Service{
		Title:       req.Title,
		Description: htmlsanitize.StripAll(req.Description),
		URL:         req.URL,
		Logo:        req.Logo,
		State:       req.State,
	})
	if err != nil {
		if errors.Is(err, servicestore.ErrDuplicateServiceTitle) {
			httpx.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("service create failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "service creation failed")
		return
	}

	h.Log.Info("service created", zap.String("service_id", svc.ID.Hex()), zap.String("slug", svc.Slug))
	httpx.JSON(w, http.StatusCreated, svc)
}

type updateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
	Logo        *string `json:"logo"`
	State       *int    `json:"state"`
}

// HandleUpdateService handles PATCH /services/{id}. Admin only.
func (h *Handler) HandleUpdateService(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.loadService(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.State != nil && !models.ValidServiceState(*req.State) {
		httpx.Error(w, http.StatusBadRequest, "invalid service state")
		return
	}
	if req.Description != nil {
		clean := htmlsanitize.StripAll(*req.Description)
		req.Description = &clean
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Services.Update(ctx, svc.ID, servicestore.Update{
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		Logo:        req.Logo,
		State:       req.State,
	})
	if err != nil {
		if errors.Is(err, servicestore.ErrDuplicateServiceTitle) {
			httpx.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("service update failed", zap.String("service_id", svc.ID.Hex()), zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "service update failed")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// HandleDeleteService handles DELETE /services/{id}. Admin only.
// Removal also scrubs the service from every user's favorites.
func (h *Handler) HandleDeleteService(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.loadService(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	deleted, err := h.Services.Delete(ctx, svc.ID)
	if err != nil {
		h.Log.Error("service delete failed", zap.String("service_id", svc.ID.Hex()), zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "service deletion failed")
		return
	}
	if deleted == 0 {
		httpx.Error(w, http.StatusNotFound, "service not found")
		return
	}

	if _, err := h.Users.PullServiceFromAllFavorites(ctx, svc.ID); err != nil {
		h.Log.Error("service delete: favorites cascade failed", zap.String("service_id", svc.ID.Hex()), zap.Error(err))
	}

	h.Log.Info("service deleted", zap.String("service_id", svc.ID.Hex()))
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
