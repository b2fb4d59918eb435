// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/teamhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateEmail = errors.New("a user with this email already exists")

// ErrQuotaReached is returned by IncGroupCount when the user has no
// remaining group-creation quota.
var ErrQuotaReached = errors.New("group creation quota reached")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email_ci": text.Fold(strings.TrimSpace(email))}).Decode(&u)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.Email = strings.TrimSpace(u.Email)
	u.EmailCI = text.Fold(u.Email)
	u.FullNameCI = text.Fold(u.FullName)
	if u.FavGroups == nil {
		u.FavGroups = []primitive.ObjectID{}
	}
	if u.FavServices == nil {
		u.FavServices = []primitive.ObjectID{}
	}
	if u.GroupQuota == 0 {
		u.GroupQuota = models.DefaultGroupQuota
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// UpdateProfile changes the self-service fields only.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, fullName, structure string) error {
	set := bson.M{
		"structure":  structure,
		"updated_at": time.Now().UTC(),
	}
	if strings.TrimSpace(fullName) != "" {
		set["full_name"] = fullName
		set["full_name_ci"] = text.Fold(fullName)
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// SetActive flips the active flag. Approving a signup request also clears
// is_request so the account can log in.
func (s *Store) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	set := bson.M{
		"is_active":  active,
		"updated_at": time.Now().UTC(),
	}
	if active {
		set["is_request"] = false
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// SetAdmin grants or revokes the global admin flag.
func (s *Store) SetAdmin(ctx context.Context, id primitive.ObjectID, admin bool) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"is_admin":   admin,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// SetQuota sets the group-creation quota.
func (s *Store) SetQuota(ctx context.Context, id primitive.ObjectID, quota int) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"group_quota": quota,
		"updated_at":  time.Now().UTC(),
	}})
	return err
}

// IncGroupCount consumes one unit of quota. The filter re-checks the
// quota so two concurrent creations cannot both pass the boundary; a
// non-match means the quota was already exhausted.
func (s *Store) IncGroupCount(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "$expr": bson.M{"$lt": bson.A{"$group_count", "$group_quota"}}},
		bson.M{"$inc": bson.M{"group_count": 1}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrQuotaReached
	}
	return nil
}

// DecGroupCount returns one unit of quota, floored at zero.
func (s *Store) DecGroupCount(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "group_count": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"group_count": -1}},
	)
	if err != nil {
		return err
	}
	_ = res // count already at zero is fine
	return nil
}

// Favorites

func (s *Store) AddFavGroup(ctx context.Context, userID, groupID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, userID, bson.M{"$addToSet": bson.M{"fav_groups": groupID}})
	return err
}

func (s *Store) RemoveFavGroup(ctx context.Context, userID, groupID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, userID, bson.M{"$pull": bson.M{"fav_groups": groupID}})
	return err
}

func (s *Store) AddFavService(ctx context.Context, userID, serviceID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, userID, bson.M{"$addToSet": bson.M{"fav_services": serviceID}})
	return err
}

func (s *Store) RemoveFavService(ctx context.Context, userID, serviceID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, userID, bson.M{"$pull": bson.M{"fav_services": serviceID}})
	return err
}

// PullGroupFromAllFavorites strips a removed group from every user's
// favorites list. Part of the group-removal cascade.
func (s *Store) PullGroupFromAllFavorites(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"fav_groups": groupID},
		bson.M{"$pull": bson.M{"fav_groups": groupID}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// PullServiceFromAllFavorites strips a removed service from every user's
// favorites list.
func (s *Store) PullServiceFromAllFavorites(ctx context.Context, serviceID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"fav_services": serviceID},
		bson.M{"$pull": bson.M{"fav_services": serviceID}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Delete removes a user by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListRequests returns pending signup requests, oldest first.
func (s *Store) ListRequests(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"is_request": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
