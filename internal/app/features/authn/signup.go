// internal/app/features/authn/signup.go
package authn

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/teamhub/internal/app/store/users"
	"github.com/dalemusser/teamhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/teamhub/internal/app/system/httpx"
	"github.com/dalemusser/teamhub/internal/app/system/timeouts"
	"github.com/dalemusser/teamhub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the cost used across the codebase for password hashes.
const bcryptCost = 12

type signupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FullName  string `json:"full_name"`
	Structure string `json:"structure"`
}

// HandleSignup handles POST /auth/signup.
//
// New accounts land as pending requests (is_request=true, is_active=false)
// and cannot log in until an admin approves them.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = htmlsanitize.StripAll(strings.TrimSpace(req.FullName))
	req.Structure = htmlsanitize.StripAll(strings.TrimSpace(req.Structure))

	switch {
	case !isValidEmail(req.Email):
		httpx.Error(w, http.StatusBadRequest, "a valid email is required")
		return
	case len(req.Password) < 8:
		httpx.Error(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	case req.FullName == "":
		httpx.Error(w, http.StatusBadRequest, "full name is required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		h.Log.Error("signup: password hash failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "signup failed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.Create(ctx, models.User{
		Email:        req.Email,
		FullName:     req.FullName,
		Structure:    req.Structure,
		PasswordHash: string(hash),
		IsActive:     false,
		IsRequest:    true,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			httpx.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("signup: create failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "signup failed")
		return
	}

	h.Log.Info("signup request created",
		zap.String("user_id", user.ID.Hex()),
		zap.String("email", user.Email))

	httpx.JSON(w, http.StatusCreated, map[string]any{
		"user_id":    user.ID.Hex(),
		"is_request": true,
	})
}

// isValidEmail performs a minimal shape check: one @, non-empty local
// part, and a dot somewhere in the domain.
func isValidEmail(email string) bool {
	at := strings.Index(email, "@")
	if at < 1 || at != strings.LastIndex(email, "@") {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
