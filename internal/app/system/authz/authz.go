// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/teamhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the caller's Mongo ObjectID and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// NilObjectID, false. This ensures callers can trust that ok=true means a
// valid, authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed for security.
		return primitive.NilObjectID, false
	}
	return userID, true
}

// IsActive reports whether the current request's user exists, is approved,
// and has an active account. Every mutating operation checks this first.
func IsActive(r *http.Request) bool {
	user, ok := auth.CurrentUser(r)
	return ok && user.IsActive && !user.IsRequest
}

// IsAdmin reports whether the current request's user is an active global
// admin.
func IsAdmin(r *http.Request) bool {
	user, ok := auth.CurrentUser(r)
	return ok && user.IsAdmin && user.IsActive && !user.IsRequest
}

// IsSelf reports whether the current request's user is the given user.
func IsSelf(r *http.Request, userID primitive.ObjectID) bool {
	id, ok := UserCtx(r)
	return ok && id == userID
}
