// internal/domain/models/crew.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Crew is a working unit: one driver, one or more loaders, and a truck.
type Crew struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name      string               `bson:"name" json:"name"`
	NameCI    string               `bson:"name_ci" json:"-"`
	DriverID  primitive.ObjectID   `bson:"driver_id" json:"driver_id"`
	LoaderIDs []primitive.ObjectID `bson:"loader_ids" json:"loader_ids"`
	TruckID   primitive.ObjectID   `bson:"truck_id" json:"truck_id"`
	ZoneID    *primitive.ObjectID  `bson:"zone_id,omitempty" json:"zone_id,omitempty"`
	Active    bool                 `bson:"active" json:"active"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Driver, loader, and truck records live in the fleet management system;
// crews reference them by id only.
