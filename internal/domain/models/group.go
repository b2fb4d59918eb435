// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group type values. Moderated groups require animator approval before a
// candidate becomes a member; closed groups accept no self-service joins.
const (
	GroupTypeOpen      = 0
	GroupTypeModerated = 5
	GroupTypeClosed    = 10
)

// Group is a collaborative workspace cohort.
//
// NOTE:
//   - Member/animator/admin/candidate lists are not embedded on Group.
//     All membership is stored in the group_memberships collection, one
//     document per (group, user, role). View-style ID arrays are derived
//     at read time (see MemberView).
type Group struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"`
	Slug        string             `bson:"slug" json:"slug"`
	Type        int                `bson:"type" json:"type"`
	Description string             `bson:"description" json:"description"`
	Content     string             `bson:"content" json:"content"` // sanitized HTML
	Avatar      string             `bson:"avatar,omitempty" json:"avatar,omitempty"`

	// OwnerID is the creating user. It may be NilObjectID if the owner's
	// account was removed; the group keeps running without an owner.
	OwnerID primitive.ObjectID `bson:"owner_id" json:"owner_id"`

	// Meeting credentials, generated once at creation and reused for every
	// meeting-room provisioning call for this group.
	MeetingAttendeePW  string `bson:"meeting_attendee_pw,omitempty" json:"-"`
	MeetingModeratorPW string `bson:"meeting_moderator_pw,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsOpen reports whether any active user may self-join as member.
func (g Group) IsOpen() bool { return g.Type == GroupTypeOpen }

// IsModerated reports whether the group accepts membership candidacies.
func (g Group) IsModerated() bool { return g.Type == GroupTypeModerated }

// ValidGroupType reports whether t is one of the three group types.
func ValidGroupType(t int) bool {
	return t == GroupTypeOpen || t == GroupTypeModerated || t == GroupTypeClosed
}

// MemberView is the derived array representation of a group's membership,
// built from group_memberships rows for API responses.
type MemberView struct {
	Admins     []primitive.ObjectID `json:"admins"`
	Animators  []primitive.ObjectID `json:"animators"`
	Members    []primitive.ObjectID `json:"members"`
	Candidates []primitive.ObjectID `json:"candidates"`
}
