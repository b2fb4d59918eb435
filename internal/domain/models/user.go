// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents every account in the workspace: global admins, group
// animators, plain members, and pending signup requests.
//
// NOTE:
//   - Group membership is not embedded on User. Use the group_memberships
//     collection to discover a user's groups and roles.
//   - Global admin rights live on the user document itself (IsAdmin);
//     group-scoped roles live in group_memberships.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email      string             `bson:"email" json:"email"`
	EmailCI    string             `bson:"email_ci" json:"email_ci"` // lowercase, diacritics-stripped
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"`
	Structure  string             `bson:"structure,omitempty" json:"structure,omitempty"`

	// PasswordHash is a bcrypt hash; never serialized to JSON.
	PasswordHash string `bson:"password_hash" json:"-"`

	// IsActive gates every authenticated operation. IsRequest marks a
	// signup awaiting admin approval; such accounts cannot log in.
	IsActive  bool `bson:"is_active" json:"is_active"`
	IsRequest bool `bson:"is_request" json:"is_request"`
	IsAdmin   bool `bson:"is_admin" json:"is_admin"`

	FavGroups   []primitive.ObjectID `bson:"fav_groups" json:"fav_groups"`
	FavServices []primitive.ObjectID `bson:"fav_services" json:"fav_services"`

	// GroupCount tracks groups created by this user; creation is refused
	// once GroupCount reaches GroupQuota.
	GroupCount int `bson:"group_count" json:"group_count"`
	GroupQuota int `bson:"group_quota" json:"group_quota"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// DefaultGroupQuota is assigned to new accounts at signup.
const DefaultGroupQuota = 10
