// internal/domain/models/membership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group-scoped role names. Global admin is a flag on the user document,
// not a membership row.
const (
	RoleAdmin     = "admin"
	RoleAnimator  = "animator"
	RoleMember    = "member"
	RoleCandidate = "candidate"
)

// ValidRole reports whether role is one of the group-scoped roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleAnimator, RoleMember, RoleCandidate:
		return true
	}
	return false
}

// GroupMembership is the authoritative join between users and groups.
// Exactly one document per (group_id, user_id, role); a user holding both
// the animator and member roles in a group has two rows.
type GroupMembership struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID   primitive.ObjectID `bson:"group_id" json:"group_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role      string             `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
