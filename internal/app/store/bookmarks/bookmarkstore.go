// internal/app/store/bookmarks/bookmarkstore.go
package bookmarkstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/teamhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateURL = errors.New("a bookmark with this URL already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("bookmarks")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Bookmark, error) {
	var b models.Bookmark
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return models.Bookmark{}, err
	}
	return b, nil
}

func (s *Store) Create(ctx context.Context, b models.Bookmark) (models.Bookmark, error) {
	now := time.Now().UTC()
	b.ID = primitive.NewObjectID()
	b.URL = strings.TrimSpace(b.URL)
	b.CreatedAt = now
	b.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, b); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Bookmark{}, ErrDuplicateURL
		}
		return models.Bookmark{}, err
	}
	return b, nil
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, url, name, tag string) error {
	set := bson.M{
		"name":       name,
		"tag":        tag,
		"updated_at": time.Now().UTC(),
	}
	if strings.TrimSpace(url) != "" {
		set["url"] = strings.TrimSpace(url)
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateURL
		}
		return err
	}
	return nil
}

// Delete removes a bookmark by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByGroup removes all bookmarks owned by a group.
// Returns the number of documents deleted.
func (s *Store) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByGroup returns a group's bookmarks, newest first.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Bookmark, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var bookmarks []models.Bookmark
	if err := cur.All(ctx, &bookmarks); err != nil {
		return nil, err
	}
	return bookmarks, nil
}
