// internal/app/policy/roles.go
package policy

import (
	"context"
	"net/http"

	"github.com/dalemusser/teamhub/internal/app/system/authz"
	"github.com/dalemusser/teamhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Denial reasons surfaced verbatim to API callers.
const (
	ReasonMustBeActive  = "account must be active"
	ReasonNotPermitted  = "not permitted"
	ReasonAdminRank     = "admin rank needed"
	ReasonModeratedOnly = "candidate operations require a moderated group"
	ReasonClosedGroup   = "group does not accept self-service joins"
)

// CanSetRole decides whether the caller may move target into role within
// group:
//
//   - self-assign member: open groups only
//   - self-assign candidate: moderated groups only
//   - member/candidate on someone else: group admin, animator, owner, or
//     global admin
//   - admin/animator roles: group admin, owner, or global admin (animators
//     cannot grant or revoke governance roles)
//
// Returns (allowed, reason); reason is set only on denial. An error is
// returned only if a membership lookup fails.
func (c *Checker) CanSetRole(ctx context.Context, r *http.Request, group models.Group, target primitive.ObjectID, role string) (bool, string, error) {
	if !authz.IsActive(r) {
		return false, ReasonMustBeActive, nil
	}
	callerID, ok := authz.UserCtx(r)
	if !ok {
		return false, ReasonMustBeActive, nil
	}

	if role == models.RoleCandidate && !group.IsModerated() {
		return false, ReasonModeratedOnly, nil
	}

	if callerID == target {
		switch role {
		case models.RoleMember:
			if group.IsOpen() {
				return true, "", nil
			}
		case models.RoleCandidate:
			// Moderated check already passed above.
			return true, "", nil
		}
		// Self-promotion to admin/animator, or self-join of a non-open
		// group, falls through to the managed path below.
	}

	cap := CapMemberManage
	if role == models.RoleAdmin || role == models.RoleAnimator {
		cap = CapRoleManage
	}
	allowed, err := c.Check(ctx, r, cap, Target{GroupID: group.ID, OwnerID: group.OwnerID})
	if err != nil {
		return false, "", err
	}
	if !allowed {
		if callerID == target && role == models.RoleMember {
			return false, ReasonClosedGroup, nil
		}
		return false, ReasonNotPermitted, nil
	}
	return true, "", nil
}

// CanUnsetRole decides whether the caller may remove role from target in
// group. Users may always shed their own member or candidate role (leave a
// group, withdraw a candidacy); everything else follows the same matrix as
// CanSetRole.
func (c *Checker) CanUnsetRole(ctx context.Context, r *http.Request, group models.Group, target primitive.ObjectID, role string) (bool, string, error) {
	if !authz.IsActive(r) {
		return false, ReasonMustBeActive, nil
	}
	callerID, ok := authz.UserCtx(r)
	if !ok {
		return false, ReasonMustBeActive, nil
	}

	if callerID == target && (role == models.RoleMember || role == models.RoleCandidate) {
		return true, "", nil
	}

	cap := CapMemberManage
	if role == models.RoleAdmin || role == models.RoleAnimator {
		cap = CapRoleManage
	}
	allowed, err := c.Check(ctx, r, cap, Target{GroupID: group.ID, OwnerID: group.OwnerID})
	if err != nil {
		return false, "", err
	}
	if !allowed {
		return false, ReasonNotPermitted, nil
	}
	return true, "", nil
}
