// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"

	groupstore "github.com/dalemusser/teamhub/internal/app/store/groups"
	membershipstore "github.com/dalemusser/teamhub/internal/app/store/memberships"
	userstore "github.com/dalemusser/teamhub/internal/app/store/users"
	"github.com/dalemusser/teamhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the plaintext behind every fixture user's hash.
const TestPassword = "correct horse battery staple"

// Fixtures creates domain records for tests through the real stores, so
// fixture data goes through the same folding/defaulting as production
// writes.
type Fixtures struct {
	t           *testing.T
	Users       *userstore.Store
	Groups      *groupstore.Store
	Memberships *membershipstore.Store
}

func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{
		t:           t,
		Users:       userstore.New(db),
		Groups:      groupstore.New(db),
		Memberships: membershipstore.New(db),
	}
}

// testHash is computed once; bcrypt at a real cost would dominate test time.
var testHash, _ = bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)

// CreateUser creates an active, approved user.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	u, err := f.Users.Create(ctx, models.User{
		Email:        email,
		FullName:     name,
		PasswordHash: string(testHash),
		IsActive:     true,
	})
	if err != nil {
		f.t.Fatalf("fixture user %s: %v", email, err)
	}
	return u
}

// CreateAdmin creates an active user with the global admin flag set.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	u := f.CreateUser(ctx, name, email)
	if err := f.Users.SetAdmin(ctx, u.ID, true); err != nil {
		f.t.Fatalf("fixture admin %s: %v", email, err)
	}
	u.IsAdmin = true
	return u
}

// CreatePendingUser creates a signup request awaiting approval.
func (f *Fixtures) CreatePendingUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	u, err := f.Users.Create(ctx, models.User{
		Email:        email,
		FullName:     name,
		PasswordHash: string(testHash),
		IsActive:     false,
		IsRequest:    true,
	})
	if err != nil {
		f.t.Fatalf("fixture pending user %s: %v", email, err)
	}
	return u
}

// CreateInactiveUser creates a deactivated (but approved) account.
func (f *Fixtures) CreateInactiveUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	u, err := f.Users.Create(ctx, models.User{
		Email:        email,
		FullName:     name,
		PasswordHash: string(testHash),
		IsActive:     false,
	})
	if err != nil {
		f.t.Fatalf("fixture inactive user %s: %v", email, err)
	}
	return u
}

// CreateGroup creates a group owned by owner with the given type.
func (f *Fixtures) CreateGroup(ctx context.Context, name string, groupType int, owner models.User) models.Group {
	f.t.Helper()
	g, err := f.Groups.Create(ctx, models.Group{
		Name:    name,
		Type:    groupType,
		OwnerID: owner.ID,
	})
	if err != nil {
		f.t.Fatalf("fixture group %s: %v", name, err)
	}
	return g
}

// GrantRole adds a membership row.
func (f *Fixtures) GrantRole(ctx context.Context, g models.Group, u models.User, role string) {
	f.t.Helper()
	if err := f.Memberships.SetRole(ctx, g.ID, u.ID, role); err != nil {
		f.t.Fatalf("fixture role %s in %s: %v", role, g.Name, err)
	}
}
