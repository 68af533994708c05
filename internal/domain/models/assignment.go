// internal/domain/models/assignment.go
package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Week types for an assignment.
const (
	WeekTypeRegular = "Regular"
	WeekTypeEvent   = "Event"
)

// Checkpoint labels at which dispatch must submit a status update.
// The set is fixed; StatusUpdates always carries exactly these keys.
const (
	Checkpoint11AM = "11AM"
	Checkpoint1PM  = "1PM"
	Checkpoint3PM  = "3PM"
	CheckpointEOD  = "EOD"
)

// CheckpointLabels lists the recognized status checkpoints in daily order.
var CheckpointLabels = []string{Checkpoint11AM, Checkpoint1PM, Checkpoint3PM, CheckpointEOD}

// DefaultStartTime is when crews roll out unless the assignment says otherwise.
const DefaultStartTime = "06:30"

// Assignment links a crew, a route, a client, and a zone to one collection
// date. Dispatch staff mutate it through the day: attendance and PPE
// confirmation in the morning, a free-text status at each checkpoint, and
// completion at the end of the route.
type Assignment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CrewID     primitive.ObjectID `bson:"crew_id" json:"crew_id"`
	RouteID    primitive.ObjectID `bson:"route_id" json:"route_id"`
	ClientID   primitive.ObjectID `bson:"client_id" json:"client_id"`
	ZoneID     primitive.ObjectID `bson:"zone_id" json:"zone_id"`
	WeekNumber int                `bson:"week_number" json:"week_number"`
	DOC        time.Time          `bson:"doc" json:"doc"` // date of collection, midnight UTC
	DOW        string             `bson:"dow" json:"dow"` // e.g. "Monday"
	WeekType   string             `bson:"week_type" json:"week_type"`

	StartTime      string  `bson:"start_time" json:"start_time"`           // "HH:MM"
	EndTime        *string `bson:"end_time,omitempty" json:"end_time"`     // nil until completed
	CompletionTime float64 `bson:"completion_time" json:"completion_time"` // hours, end minus start on DOC

	AttendanceConfirmed bool `bson:"attendance_confirmed" json:"attendance_confirmed"`
	PPECompliance       bool `bson:"ppe_compliance" json:"ppe_compliance"`

	// StatusUpdates maps checkpoint label to operator text; nil until a
	// dispatcher submits that checkpoint, permanent afterwards.
	StatusUpdates map[string]*string `bson:"status_updates" json:"status_updates"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// NewStatusUpdates returns the canonical empty checkpoint map.
func NewStatusUpdates() map[string]*string {
	m := make(map[string]*string, len(CheckpointLabels))
	for _, label := range CheckpointLabels {
		m[label] = nil
	}
	return m
}

// NormalizeStatusUpdates restores the invariant that StatusUpdates contains
// exactly the recognized labels, preserving any values already present.
// Unknown keys are dropped.
func (a *Assignment) NormalizeStatusUpdates() {
	m := NewStatusUpdates()
	for _, label := range CheckpointLabels {
		if v, ok := a.StatusUpdates[label]; ok {
			m[label] = v
		}
	}
	a.StatusUpdates = m
}

// CollectionDate truncates t to its calendar day in t's own location and
// returns that day as midnight UTC, the form DOC is stored in. Using the
// wall-clock day rather than the UTC instant keeps an evening checkpoint
// on the same operational day as the assignments it checks.
func CollectionDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseClock parses an "HH:MM" wall-clock string. The whole string must be
// the clock value; trailing text is rejected.
func ParseClock(s string) (hour, min int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// CompletionHours computes the hours between start and end measured on the
// same calendar date as DOC. The result is only meaningful once EndTime is
// set; callers record it in CompletionTime at completion.
func (a *Assignment) CompletionHours(end string) (float64, error) {
	sh, sm, err := ParseClock(a.StartTime)
	if err != nil {
		return 0, err
	}
	eh, em, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	start := a.DOC.Add(time.Duration(sh)*time.Hour + time.Duration(sm)*time.Minute)
	finish := a.DOC.Add(time.Duration(eh)*time.Hour + time.Duration(em)*time.Minute)
	return finish.Sub(start).Hours(), nil
}
