// internal/app/features/users/handler.go
package users

import (
	"errors"
	"net/http"

	groupstore "github.com/dalemusser/teamhub/internal/app/store/groups"
	membershipstore "github.com/dalemusser/teamhub/internal/app/store/memberships"
	userstore "github.com/dalemusser/teamhub/internal/app/store/users"
	"github.com/dalemusser/teamhub/internal/app/system/httpx"
	"github.com/dalemusser/teamhub/internal/clients/directory"
	"github.com/dalemusser/teamhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the user administration and self-service endpoints.
type Handler struct {
	Users       *userstore.Store
	Groups      *groupstore.Store
	Memberships *membershipstore.Store
	Directory   directory.Sync
	Log         *zap.Logger
}

func NewHandler(
	users *userstore.Store,
	groups *groupstore.Store,
	memberships *membershipstore.Store,
	dir directory.Sync,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Users:       users,
		Groups:      groups,
		Memberships: memberships,
		Directory:   dir,
		Log:         logger,
	}
}

// loadUser resolves the {id} URL parameter and fetches the user.
func (h *Handler) loadUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid user id")
		return models.User{}, false
	}

	u, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpx.Error(w, http.StatusNotFound, "user not found")
			return models.User{}, false
		}
		h.Log.Error("user lookup failed", zap.String("user_id", id.Hex()), zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "user lookup failed")
		return models.User{}, false
	}
	return u, true
}
