// internal/testutil/http.go
package testutil

import (
	"context"
	"net/http"

	"github.com/dalemusser/teamhub/internal/app/system/auth"
	"github.com/dalemusser/teamhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// AsUser injects u into the request context the way LoadSessionUser
// would for a live session.
func AsUser(r *http.Request, u models.User) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:        u.ID.Hex(),
		Email:     u.Email,
		Name:      u.FullName,
		IsAdmin:   u.IsAdmin,
		IsActive:  u.IsActive,
		IsRequest: u.IsRequest,
	})
}

// WithURLParam attaches a chi route parameter to the request so
// handlers can be exercised without mounting a full router.
func WithURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
