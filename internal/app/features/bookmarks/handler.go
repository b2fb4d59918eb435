// internal/app/features/bookmarks/handler.go
package bookmarks

import (
	"errors"
	"net/http"

	"github.com/dalemusser/teamhub/internal/app/policy"
	bookmarkstore "github.com/dalemusser/teamhub/internal/app/store/bookmarks"
	groupstore "github.com/dalemusser/teamhub/internal/app/store/groups"
	"github.com/dalemusser/teamhub/internal/app/system/httpx"
	"github.com/dalemusser/teamhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the bookmark endpoints that are addressed by bookmark
// ID rather than through the owning group.
type Handler struct {
	Bookmarks *bookmarkstore.Store
	Groups    *groupstore.Store
	Policy    *policy.Checker
	Log       *zap.Logger
}

func NewHandler(bookmarks *bookmarkstore.Store, groups *groupstore.Store, checker *policy.Checker, logger *zap.Logger) *Handler {
	return &Handler{Bookmarks: bookmarks, Groups: groups, Policy: checker, Log: logger}
}

// loadBookmark resolves {id} and fetches the bookmark together with its
// owning group, which the authorization checks need.
func (h *Handler) loadBookmark(w http.ResponseWriter, r *http.Request) (models.Bookmark, models.Group, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid bookmark id")
		return models.Bookmark{}, models.Group{}, false
	}

	b, err := h.Bookmarks.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpx.Error(w, http.StatusNotFound, "bookmark not found")
			return models.Bookmark{}, models.Group{}, false
		}
		h.Log.Error("bookmark lookup failed", zap.String("bookmark_id", id.Hex()), zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "bookmark lookup failed")
		return models.Bookmark{}, models.Group{}, false
	}

	g, err := h.Groups.GetByID(r.Context(), b.GroupID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		h.Log.Error("bookmark group lookup failed", zap.String("bookmark_id", id.Hex()), zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "bookmark lookup failed")
		return models.Bookmark{}, models.Group{}, false
	}
	return b, g, true
}
