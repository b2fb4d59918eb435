// internal/app/features/groups/util.go
package groups

import (
	"errors"
	"net/http"

	"github.com/dalemusser/teamhub/internal/app/system/httpx"
	"github.com/dalemusser/teamhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// loadGroup resolves the {id} URL parameter and fetches the group.
// The parameter is an ObjectID hex or, failing that, a slug. On failure
// it writes the error response and returns ok=false; callers just
// return.
func (h *Handler) loadGroup(w http.ResponseWriter, r *http.Request) (models.Group, bool) {
	key := chi.URLParam(r, "id")

	var g models.Group
	var err error
	if id, idErr := primitive.ObjectIDFromHex(key); idErr == nil {
		g, err = h.Groups.GetByID(r.Context(), id)
	} else {
		g, err = h.Groups.GetBySlug(r.Context(), key)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpx.Error(w, http.StatusNotFound, "group not found")
			return models.Group{}, false
		}
		h.Log.Error("group lookup failed", zap.String("group", key), zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "group lookup failed")
		return models.Group{}, false
	}
	return g, true
}

// parseUserID reads a user id from a decoded request field.
func parseUserID(w http.ResponseWriter, hex string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid user id")
		return primitive.NilObjectID, false
	}
	return id, true
}
