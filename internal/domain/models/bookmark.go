// internal/domain/models/bookmark.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bookmark is a shared link owned by a group. URLs are globally unique.
type Bookmark struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	URL      string             `bson:"url" json:"url"`
	Name     string             `bson:"name" json:"name"`
	Tag      string             `bson:"tag,omitempty" json:"tag,omitempty"`
	GroupID  primitive.ObjectID `bson:"group_id" json:"group_id"`
	AuthorID primitive.ObjectID `bson:"author_id" json:"author_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
