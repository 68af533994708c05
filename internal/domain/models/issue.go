// internal/domain/models/issue.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Issue types reported by dispatch during a collection route.
const (
	IssueNothingOut          = "Nothing Out"
	IssueWrongCollectionWeek = "Wrong Collection Week"
	IssueBlockedAccess       = "Blocked Access"
	IssueContamination       = "Contamination"
	IssueOther               = "Other"
)

// Issue is a problem logged against a physical address during a route.
//
// RepeatOffender is derived: it is true exactly when more than one issue
// exists at the same Address. The raw Address string is the grouping key;
// no case folding or trimming is applied to it. AddressCI exists only for
// prefix search on list screens and never participates in offender
// detection.
type Issue struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CrewID       primitive.ObjectID `bson:"crew_id" json:"crew_id"`
	RouteID      primitive.ObjectID `bson:"route_id" json:"route_id"`
	Address      string             `bson:"address" json:"address"`
	AddressCI    string             `bson:"address_ci" json:"-"` // lowercase, diacritics-stripped
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	IssueType    string             `bson:"issue_type" json:"issue_type"`
	DateReported time.Time          `bson:"date_reported" json:"date_reported"`

	RepeatOffender bool `bson:"repeat_offender" json:"repeat_offender"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
