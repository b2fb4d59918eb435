// internal/app/features/bookmarks/update.go
package bookmarks

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
	"go.uber.org/zap"
)

type updateRequest struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Tag  string `json:"tag"`
}

// HandleUpdateBookmark handles PATCH /bookmarks/{id}.
//
// The author may edit their own bookmark; otherwise the usual group
// write capability applies.
func (h *Handler) HandleUpdateBookmark(w http.ResponseWriter, r *http.Request) {
	b, g, ok := h.loadBookmark(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = htmlsanitize.StripAll(strings.TrimSpace(req.Name))
	req.Tag = htmlsanitize.StripAll(strings.TrimSpace(req.Tag))
	if req.Name == "" {
		httpx.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	allowed := authz.IsSelf(r, b.AuthorID) && authz.IsActive(r)
	if !allowed {
		var err error
		allowed, err = h.Policy.Check(ctx, r, policy.CapBookmarkWrite, policy.Target{GroupID: g.ID, OwnerID: g.OwnerID})
		if err != nil {
			h.Log.Error("bookmark update: authorization check failed", zap.Error(err))
			httpx.Error(w, http.StatusInternalServerError, "bookmark update failed")
			return
		}
	}
	if !allowed {
		httpx.Error(w, http.StatusForbidden, policy.ReasonNotPermitted)
		return
	}

	if err := h.Bookmarks.Update(ctx, b.ID, req.URL, req.Name, req.Tag); err != nil {
		if errors.Is(err, bookmarkstore.ErrDuplicateURL) {
			httpx.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("bookmark update failed", zap.String("bookmark_id", b.ID.Hex()), zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "bookmark update failed")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// HandleDeleteBookmark handles DELETE /bookmarks/{id}.
//
// The author may delete their own bookmark; plain group members may
// not delete others' bookmarks.
func (h *Handler) HandleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	b, g, ok := h.loadBookmark(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	allowed := authz.IsSelf(r, b.AuthorID) && authz.IsActive(r)
	if !allowed {
		var err error
		allowed, err = h.Policy.Check(ctx, r, policy.CapBookmarkDelete, policy.Target{GroupID: g.ID, OwnerID: g.OwnerID})
		if err != nil {
			h.Log.Error("bookmark delete: authorization check failed", zap.Error(err))
			httpx.Error(w, http.StatusInternalServerError, "bookmark deletion failed")
			return
		}
	}
	if !allowed {
		httpx.Error(w, http.StatusForbidden, policy.ReasonNotPermitted)
		return
	}

	if _, err := h.Bookmarks.Delete(ctx, b.ID); err != nil {
		h.Log.Error("bookmark delete failed", zap.String("bookmark_id", b.ID.Hex()), zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "bookmark deletion failed")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
