// Package policy is the single authorization surface for the API.
//
// Every mutating handler asks this package one question before touching the
// store: may the caller perform capability X on target T? The
// capability table below is the complete map from operations to the
// relationships that grant them, so the rules can be read (and tested) in
// one place instead of being scattered through handlers.
package policy

import (
	"context"
	"net/http"

	"github.com/dalemusser/teamhub/internal/app/system/authz"
	"github.com/dalemusser/teamhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Capability names an operation class subject to authorization.
type Capability string

const (
	CapGroupEdit      Capability = "group.edit"       // full field set
	CapGroupEditInfo  Capability = "group.edit_info"  // description/content/avatar only
	CapGroupDelete    Capability = "group.delete"
	CapGroupMeeting   Capability = "group.meeting"    // provision/check the meeting room
	CapMemberManage   Capability = "group.members"    // set/unset members and candidates
	CapRoleManage     Capability = "group.roles"      // set/unset admins and animators
	CapBookmarkWrite  Capability = "group.bookmarks"  // create/update bookmarks
	CapBookmarkDelete Capability = "bookmark.delete"
	CapUserAdmin      Capability = "user.admin"       // activate, quota, admin flag, removal
	CapUserSelf       Capability = "user.self"        // profile, favorites
	CapServiceAdmin   Capability = "service.admin"
)

// Relation is a relationship between the caller and the target that can
// satisfy a capability.
type Relation int

const (
	GlobalAdmin Relation = iota
	GroupAdmin
	GroupAnimator
	GroupMember
	Owner // owner of the target group, or author of the target resource
	Self  // caller is the target user
)

// rules maps each capability to the relations that grant it. Relations
// combine with OR; an empty entry means global admin only.
var rules = map[Capability][]Relation{
	CapGroupEdit:      {GlobalAdmin, GroupAdmin, Owner},
	CapGroupEditInfo:  {GlobalAdmin, GroupAdmin, GroupAnimator, Owner},
	CapGroupDelete:    {GlobalAdmin, GroupAdmin, Owner},
	CapGroupMeeting:   {GlobalAdmin, GroupAdmin, GroupAnimator, GroupMember, Owner},
	CapMemberManage:   {GlobalAdmin, GroupAdmin, GroupAnimator, Owner},
	CapRoleManage:     {GlobalAdmin, GroupAdmin, Owner},
	CapBookmarkWrite:  {GlobalAdmin, GroupAdmin, GroupAnimator, GroupMember, Owner},
	CapBookmarkDelete: {GlobalAdmin, GroupAdmin, GroupAnimator, Owner},
	CapUserAdmin:      {GlobalAdmin},
	CapUserSelf:       {GlobalAdmin, Self},
	CapServiceAdmin:   {GlobalAdmin},
}

// Rules exposes a copy of the capability table for audit endpoints/tests.
func Rules() map[Capability][]Relation {
	out := make(map[Capability][]Relation, len(rules))
	for c, rs := range rules {
		out[c] = append([]Relation(nil), rs...)
	}
	return out
}

// Target identifies what a capability is being checked against. Zero
// fields are simply not consulted: a user-only capability needs no GroupID.
type Target struct {
	GroupID primitive.ObjectID // group the operation touches
	OwnerID primitive.ObjectID // owner/author field of the target
	UserID  primitive.ObjectID // target user for self-service operations
}

// Checker evaluates capabilities against the membership collection.
type Checker struct {
	memberships *mongo.Collection
}

// NewChecker builds a Checker over the given database.
func NewChecker(db *mongo.Database) *Checker {
	return &Checker{memberships: db.Collection("group_memberships")}
}

// Check reports whether the current request's caller holds any relation
// that grants cap on target. It fails closed: no caller, inactive caller,
// or a pending signup request all deny immediately, before any relation
// is considered. Returns an error only if a database lookup fails.
func (c *Checker) Check(ctx context.Context, r *http.Request, cap Capability, target Target) (bool, error) {
	if !authz.IsActive(r) {
		return false, nil
	}
	callerID, ok := authz.UserCtx(r)
	if !ok {
		return false, nil
	}

	var groupRoles []string
	for _, rel := range rules[cap] {
		switch rel {
		case GlobalAdmin:
			if authz.IsAdmin(r) {
				return true, nil
			}
		case Owner:
			if target.OwnerID != primitive.NilObjectID && target.OwnerID == callerID {
				return true, nil
			}
		case Self:
			if target.UserID != primitive.NilObjectID && target.UserID == callerID {
				return true, nil
			}
		case GroupAdmin:
			groupRoles = append(groupRoles, models.RoleAdmin)
		case GroupAnimator:
			groupRoles = append(groupRoles, models.RoleAnimator)
		case GroupMember:
			groupRoles = append(groupRoles, models.RoleMember)
		}
	}

	if len(groupRoles) == 0 || target.GroupID == primitive.NilObjectID {
		return false, nil
	}
	return c.HasAnyGroupRole(ctx, target.GroupID, callerID, groupRoles...)
}

// HasAnyGroupRole reports whether the user holds one of the given roles in
// the group, according to the authoritative group_memberships collection.
func (c *Checker) HasAnyGroupRole(ctx context.Context, groupID, userID primitive.ObjectID, roles ...string) (bool, error) {
	n, err := c.memberships.CountDocuments(ctx, bson.M{
		"group_id": groupID,
		"user_id":  userID,
		"role":     bson.M{"$in": roles},
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// HasGroupRole is a convenience wrapper for a single role.
func (c *Checker) HasGroupRole(ctx context.Context, groupID, userID primitive.ObjectID, role string) (bool, error) {
	return c.HasAnyGroupRole(ctx, groupID, userID, role)
}
