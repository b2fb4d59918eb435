// internal/app/features/groups/bookmarks.go
package groups

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/teamhub/internal/app/policy"
	bookmarkstore "github.com/dalemusser/teamhub/internal/app/store/bookmarks"
	"github.com/dalemusser/teamhub/internal/app/system/authz"
	"github.com/dalemusser/teamhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/teamhub/internal/app/system/httpx"
	"github.com/dalemusser/teamhub/internal/app/system/timeouts"
	"github.com/dalemusser/teamhub/internal/domain/models"
	"go.uber.org/zap"
)

type bookmarkRequest struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Tag  string `json:"tag"`
}

// ServeBookmarksList handles GET /groups/{id}/bookmarks.
func (h *Handler) ServeBookmarksList(w http.ResponseWriter, r *http.Request) {
	g, ok := h.loadGroup(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Bookmarks.ListByGroup(ctx, g.ID)
	if err != nil {
		h.Log.Error("bookmark list failed", zap.String("group_id", g.ID.Hex()), zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "bookmark list failed")
		return
	}
	if rows == nil {
		rows = []models.Bookmark{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"bookmarks": rows})
}

// HandleCreateBookmark handles POST /groups/{id}/bookmarks.
//
// Any member of the group (or its animators/admins/owner, or a global
// admin) may add a bookmark. URLs are globally unique.
func (h *Handler) HandleCreateBookmark(w http.ResponseWriter, r *http.Request) {
	callerID, ok := authz.UserCtx(r)
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	g, ok := h.loadGroup(w, r)
	if !ok {
		return
	}

	var req bookmarkRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	req.Name = htmlsanitize.StripAll(strings.TrimSpace(req.Name))
	req.Tag = htmlsanitize.StripAll(strings.TrimSpace(req.Tag))
	if req.URL == "" || req.Name == "" {
		httpx.Error(w, http.StatusBadRequest, "url and name are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	allowed, err := h.Policy.Check(ctx, r, policy.CapBookmarkWrite, policy.Target{GroupID: g.ID, OwnerID: g.OwnerID})
	if err != nil {
		h.Log.Error("bookmark create: authorization check failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "bookmark creation failed")
		return
	}
	if !allowed {
		httpx.Error(w, http.StatusForbidden, policy.ReasonNotPermitted)
		return
	}

	b, err := h.Bookmarks.Create(ctx, models.Bookmark{
		URL:      req.URL,
		Name:     req.Name,
		Tag:      req.Tag,
		GroupID:  g.ID,
		AuthorID: callerID,
	})
	if err != nil {
		if errors.Is(err, bookmarkstore.ErrDuplicateURL) {
			httpx.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("bookmark create failed", zap.String("group_id", g.ID.Hex()), zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "bookmark creation failed")
		return
	}

	httpx.JSON(w, http.StatusCreated, b)
}
