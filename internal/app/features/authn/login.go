// internal/app/features/authn/login.go
package authn

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/teamhub/internal/app/policy"
	"github.com/dalemusser/teamhub/internal/app/system/httpx"
	"github.com/dalemusser/teamhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}

// HandleLogin handles POST /auth/login.
//
// Credentials are checked against the stored bcrypt hash. Accounts that
// are deactivated or still pending approval cannot sign in. Bad
// credentials and unknown emails return the same message so the
// endpoint does not leak which emails exist.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		httpx.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	if ok, reason := h.Limiter.Check(r, req.Email); !ok {
		httpx.Error(w, http.StatusTooManyRequests, reason)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Burn a comparison so unknown emails cost the same as
			// wrong passwords.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
			httpx.Error(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.Log.Error("login: user lookup failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "login failed")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.Log.Info("login: bad password", zap.String("email", req.Email))
		httpx.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if !user.IsActive || user.IsRequest {
		httpx.Error(w, http.StatusForbidden, policy.ReasonMustBeActive)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, user.ID.Hex()); err != nil {
		h.Log.Error("login: session save failed", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		httpx.Error(w, http.StatusInternalServerError, "login failed")
		return
	}

	h.Limiter.ResetEmail(req.Email)
	h.Log.Info("user logged in", zap.String("user_id", user.ID.Hex()))

	httpx.JSON(w, http.StatusOK, loginResponse{
		UserID:  user.ID.Hex(),
		Name:    user.FullName,
		IsAdmin: user.IsAdmin,
	})
}

// dummyHash keeps login timing uniform when the email does not exist.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("login-timing-pad"), bcrypt.MinCost)
