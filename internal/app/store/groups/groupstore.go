// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/teamhub/internal/app/system/paging"
	"github.com/dalemusser/teamhub/internal/app/system/slug"
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

var ErrDuplicateGroupName = errors.New("a group with this name already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

func (s *Store) GetBySlug(ctx context.Context, sl string) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"slug": sl}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// Create inserts a new group, deriving the case-insensitive name and the
// slug. When two distinct names fold to the same slug, the insert is
// retried once with a random slug suffix; a duplicate *name* is a domain
// conflict surfaced as ErrDuplicateGroupName.
func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.NameCI = text.Fold(g.Name)
	g.Slug = slug.Make(g.Name)
	g.CreatedAt = now
	g.UpdatedAt = now

	_, err := s.c.InsertOne(ctx, g)
	if err != nil && wafflemongo.IsDup(err) {
		if strings.Contains(err.Error(), "uniq_slug") {
			g.Slug = slug.WithSuffix(g.Slug)
			if _, err2 := s.c.InsertOne(ctx, g); err2 != nil {
				if wafflemongo.IsDup(err2) {
					return models.Group{}, ErrDuplicateGroupName
				}
				return models.Group{}, err2
			}
			return g, nil
		}
		return models.Group{}, ErrDuplicateGroupName
	}
	if err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// InfoUpdate is the field set an animator may change.
type InfoUpdate struct {
	Description *string
	Content     *string
	Avatar      *string
}

// UpdateInfo applies the animator-level field subset.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, upd InfoUpdate) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Content != nil {
		set["content"] = *upd.Content
	}
	if upd.Avatar != nil {
		set["avatar"] = *upd.Avatar
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// FullUpdate is the field set an admin or the owner may change.
type FullUpdate struct {
	InfoUpdate
	Name *string
	Type *int
}

// UpdateFull applies the admin/owner field set. Renaming re-derives the
// slug, with the same slug-suffix retry as Create when two distinct
// names fold to the same slug; a name collision surfaces as
// ErrDuplicateGroupName.
func (s *Store) UpdateFull(ctx context.Context, id primitive.ObjectID, upd FullUpdate) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) != "" {
		set["name"] = *upd.Name
		set["name_ci"] = text.Fold(*upd.Name)
		set["slug"] = slug.Make(*upd.Name)
	}
	if upd.Type != nil {
		set["type"] = *upd.Type
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Content != nil {
		set["content"] = *upd.Content
	}
	if upd.Avatar != nil {
		set["avatar"] = *upd.Avatar
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil && wafflemongo.IsDup(err) {
		newSlug, renamed := set["slug"].(string)
		if renamed && strings.Contains(err.Error(), "uniq_slug") {
			set["slug"] = slug.WithSuffix(newSlug)
			if _, err2 := s.c.UpdateByID(ctx, id, bson.M{"$set": set}); err2 != nil {
				if wafflemongo.IsDup(err2) {
					return ErrDuplicateGroupName
				}
				return err2
			}
			return nil
		}
		return ErrDuplicateGroupName
	}
	return err
}

// ClearOwner detaches a removed user from the groups they own. The groups
// keep running without an owner.
func (s *Store) ClearOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"owner_id": ownerID},
		bson.M{"$set": bson.M{"owner_id": primitive.NilObjectID, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Delete removes a group by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns a keyset-paginated page of groups ordered by name_ci,
// optionally prefix-filtered on the folded name.
func (s *Store) List(ctx context.Context, search string, cfg paging.KeysetConfig) ([]models.Group, error) {
	var clauses []bson.M
	if search != "" {
		q := text.Fold(search)
		hi := q + "￿"
		clauses = append(clauses, bson.M{"name_ci": bson.M{"$gte": q, "$lt": hi}})
	}
	if ks := cfg.KeysetWindow("name_ci"); ks != nil {
		clauses = append(clauses, ks)
	}

	filter := bson.M{}
	if len(clauses) == 1 {
		filter = clauses[0]
	} else if len(clauses) > 1 {
		filter = bson.M{"$and": clauses}
	}

	find := options.Find()
	cfg.ApplyToFind(find, "name_ci")

	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var groups []models.Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}
