// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/teamhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store is the single source of truth for who holds which role in which
// group. There are no membership arrays anywhere else to keep in sync:
// every transition is one insert or one delete here, covered by the
// unique (group_id, user_id, role) index.
type Store struct {
	c      *mongo.Collection
	users  *mongo.Collection
	groups *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:      db.Collection("group_memberships"),
		users:  db.Collection("users"),
		groups: db.Collection("groups"),
	}
}

var errBadRole = errors.New(`role must be "admin", "animator", "member" or "candidate"`)

// ErrNotFound is returned when the referenced group or user does not exist.
var ErrNotFound = errors.New("group or user not found")

// SetRole grants role to userID within groupID after validating that both
// exist. A row that already exists is a friendly no-op: concurrent
// duplicate adds collapse on the unique index.
//
// Granting the member role also removes any candidate row for the same
// (group, user), which is how an approved candidacy becomes a membership.
func (s *Store) SetRole(ctx context.Context, groupID, userID primitive.ObjectID, role string) error {
	if !models.ValidRole(role) {
		return errBadRole
	}
	if err := s.checkExists(ctx, groupID, userID); err != nil {
		return err
	}

	doc := bson.M{
		"group_id":   groupID,
		"user_id":    userID,
		"role":       role,
		"created_at": time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, doc); err != nil && !wafflemongo.IsDup(err) {
		return err
	}

	if role == models.RoleMember {
		// Promotion: a new member stops being a candidate.
		if _, err := s.c.DeleteOne(ctx, bson.M{
			"group_id": groupID,
			"user_id":  userID,
			"role":     models.RoleCandidate,
		}); err != nil {
			return err
		}
	}
	return nil
}

// UnsetRole removes role from userID within groupID. Removing a role the
// user does not hold is a no-op success.
func (s *Store) UnsetRole(ctx context.Context, groupID, userID primitive.ObjectID, role string) error {
	if !models.ValidRole(role) {
		return errBadRole
	}
	_, err := s.c.DeleteOne(ctx, bson.M{
		"group_id": groupID,
		"user_id":  userID,
		"role":     role,
	})
	return err
}

// Exists checks whether userID holds role in groupID.
func (s *Store) Exists(ctx context.Context, groupID, userID primitive.ObjectID, role string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"group_id": groupID,
		"user_id":  userID,
		"role":     role,
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MemberView assembles the derived array representation of a group's
// membership (the view the API exposes on group reads).
func (s *Store) MemberView(ctx context.Context, groupID primitive.ObjectID) (models.MemberView, error) {
	view := models.MemberView{
		Admins:     []primitive.ObjectID{},
		Animators:  []primitive.ObjectID{},
		Members:    []primitive.ObjectID{},
		Candidates: []primitive.ObjectID{},
	}

	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return view, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var m models.GroupMembership
		if err := cur.Decode(&m); err != nil {
			return view, err
		}
		switch m.Role {
		case models.RoleAdmin:
			view.Admins = append(view.Admins, m.UserID)
		case models.RoleAnimator:
			view.Animators = append(view.Animators, m.UserID)
		case models.RoleMember:
			view.Members = append(view.Members, m.UserID)
		case models.RoleCandidate:
			view.Candidates = append(view.Candidates, m.UserID)
		}
	}
	return view, cur.Err()
}

// ListByUser returns all memberships held by a user.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.GroupMembership, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var memberships []models.GroupMembership
	if err := cur.All(ctx, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

// DeleteByGroup removes all memberships for a group.
// Returns the number of documents deleted.
func (s *Store) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByUser removes all memberships for a user.
// Returns the number of documents deleted.
func (s *Store) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByGroup returns the count of memberships for a group, optionally
// filtered by role. If role is empty, counts all memberships.
func (s *Store) CountByGroup(ctx context.Context, groupID primitive.ObjectID, role string) (int64, error) {
	filter := bson.M{"group_id": groupID}
	if role != "" {
		filter["role"] = role
	}
	return s.c.CountDocuments(ctx, filter)
}

func (s *Store) checkExists(ctx context.Context, groupID, userID primitive.ObjectID) error {
	if err := s.groups.FindOne(ctx, bson.M{"_id": groupID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		return err
	}
	if err := s.users.FindOne(ctx, bson.M{"_id": userID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		return err
	}
	return nil
}
