// internal/app/store/services/servicestore.go
package servicestore

import (
	"context"
	"errors"
	"strings"
	"time"

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

var ErrDuplicateServiceTitle = errors.New("a service with this title already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("services")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Service, error) {
	var svc models.Service
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&svc); err != nil {
		return models.Service{}, err
	}
	return svc, nil
}

func (s *Store) GetBySlug(ctx context.Context, sl string) (models.Service, error) {
	var svc models.Service
	if err := s.c.FindOne(ctx, bson.M{"slug": sl}).Decode(&svc); err != nil {
		return models.Service{}, err
	}
	return svc, nil
}

func (s *Store) Create(ctx context.Context, svc models.Service) (models.Service, error) {
	now := time.Now().UTC()
	svc.ID = primitive.NewObjectID()
	svc.Title = strings.TrimSpace(svc.Title)
	svc.TitleCI = text.Fold(svc.Title)
	svc.Slug = slug.Make(svc.Title)
	svc.CreatedAt = now
	svc.UpdatedAt = now
	if !models.ValidServiceState(svc.State) {
		svc.State = models.ServiceStateActive
	}
	if _, err := s.c.InsertOne(ctx, svc); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Service{}, ErrDuplicateServiceTitle
		}
		return models.Service{}, err
	}
	return svc, nil
}

// Update describes the mutable service fields. Nil pointers leave
// the stored value unchanged.
type Update struct {
	Title       *string
	Description *string
	URL         *string
	Logo        *string
	State       *int
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, u Update) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		set["title"] = title
		set["title_ci"] = text.Fold(title)
		set["slug"] = slug.Make(title)
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.URL != nil {
		set["url"] = *u.URL
	}
	if u.Logo != nil {
		set["logo"] = *u.Logo
	}
	if u.State != nil && models.ValidServiceState(*u.State) {
		set["state"] = *u.State
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateServiceTitle
		}
		return err
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns services sorted by folded title. When state is non-nil
// only services in that state are returned.
func (s *Store) List(ctx context.Context, state *int) ([]models.Service, error) {
	filter := bson.M{}
	if state != nil {
		filter["state"] = *state
	}
	opts := options.Find().SetSort(bson.D{{Key: "title_ci", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var services []models.Service
	if err := cur.All(ctx, &services); err != nil {
		return nil, err
	}
	return services, nil
}
