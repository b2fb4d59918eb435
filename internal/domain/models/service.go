// internal/domain/models/service.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Service state values.
const (
	ServiceStateActive      = 0
	ServiceStateInactive    = 5
	ServiceStateMaintenance = 10
)

// Service is an entry in the global services catalog. Only global admins
// manage services; any active user may list and favorite them.
type Service struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"title_ci"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description"`
	URL         string             `bson:"url" json:"url"`
	Logo        string             `bson:"logo,omitempty" json:"logo,omitempty"`
	State       int                `bson:"state" json:"state"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ValidServiceState reports whether s is one of the three service states.
func ValidServiceState(s int) bool {
	return s == ServiceStateActive || s == ServiceStateInactive || s == ServiceStateMaintenance
}
