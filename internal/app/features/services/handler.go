// internal/app/features/services/handler.go
package services

import (
	"errors"
	"net/http"

	servicestore "github.com/dalemusser/teamhub/internal/app/store/services"
	userstore "github.com/dalemusser/teamhub/internal/app/store/users"
	"github.com/dalemusser/teamhub/internal/app/system/httpx"
	"github.com/dalemusser/teamhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the services catalog endpoints.
type Handler struct {
	Services *servicestore.Store
	Users    *userstore.Store
	Log      *zap.Logger
}

func NewHandler(services *servicestore.Store, users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Services: services, Users: users, Log: logger}
}

// loadService resolves the {id} URL parameter (ObjectID hex or slug)
// and fetches the service.
func (h *Handler) loadService(w http.ResponseWriter, r *http.Request) (models.Service, bool) {
	key := chi.URLParam(r, "id")

	var svc models.Service
	var err error
	if id, idErr := primitive.ObjectIDFromHex(key); idErr == nil {
		svc, err = h.Services.GetByID(r.Context(), id)
	} else {
		svc, err = h.Services.GetBySlug(r.Context(), key)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpx.Error(w, http.StatusNotFound, "service not found")
			return models.Service{}, false
		}
		h.Log.Error("service lookup failed", zap.String("service", key), zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "service lookup failed")
		return models.Service{}, false
	}
	return svc, true
}
