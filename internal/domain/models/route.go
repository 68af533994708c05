// internal/domain/models/route.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Route is a named collection path within a zone, run on a fixed day of the
// week.
type Route struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	NameCI    string             `bson:"name_ci" json:"-"`
	ZoneID    primitive.ObjectID `bson:"zone_id" json:"zone_id"`
	DOW       string             `bson:"dow" json:"dow"`
	StopCount int                `bson:"stop_count,omitempty" json:"stop_count,omitempty"`
	Active    bool               `bson:"active" json:"active"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Zone is a geographic service area.
type Zone struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Client is a municipality or commercial account the company collects for.
type Client struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	NameCI       string             `bson:"name_ci" json:"-"`
	ContactEmail string             `bson:"contact_email,omitempty" json:"contact_email,omitempty"`
	ContactPhone string             `bson:"contact_phone,omitempty" json:"contact_phone,omitempty"`
	Active       bool               `bson:"active" json:"active"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
