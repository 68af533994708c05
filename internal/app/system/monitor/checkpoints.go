// internal/app/system/monitor/checkpoints.go
package monitor

import (
	"time"

	"github.com/ezzdayhq/ezzday/internal/domain/models"
)

// CheckpointKind distinguishes the morning compliance gate from the
// status checkpoints that follow it.
type CheckpointKind int

const (
	// KindAttendance is the 8 AM attendance and PPE compliance check.
	KindAttendance CheckpointKind = iota
	// KindStatus is a checkpoint at which a status update must exist.
	KindStatus
)

// Checkpoint is one wall-clock moment in the daily schedule at which the
// monitor inspects every assignment for the current collection date.
type Checkpoint struct {
	Hour   int
	Minute int
	Kind   CheckpointKind
	// Label is the StatusUpdates key for KindStatus checkpoints, empty
	// for the attendance gate.
	Label string
}

// Schedule is the fixed daily checkpoint table, in chronological order.
var Schedule = []Checkpoint{
	{Hour: 8, Minute: 0, Kind: KindAttendance},
	{Hour: 11, Minute: 0, Kind: KindStatus, Label: models.Checkpoint11AM},
	{Hour: 13, Minute: 0, Kind: KindStatus, Label: models.Checkpoint1PM},
	{Hour: 15, Minute: 0, Kind: KindStatus, Label: models.Checkpoint3PM},
	{Hour: 18, Minute: 0, Kind: KindStatus, Label: models.CheckpointEOD},
}

// occurrence returns the checkpoint's wall-clock time on now's calendar
// date, in now's location.
func (c Checkpoint) occurrence(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, now.Location())
}

// At reports the checkpoint whose scheduled minute contains now, if any.
// A tick that lands anywhere inside the minute counts; one minute later
// does not.
func At(now time.Time) (Checkpoint, bool) {
	for _, c := range Schedule {
		if now.Hour() == c.Hour && now.Minute() == c.Minute {
			return c, true
		}
	}
	return Checkpoint{}, false
}

// Next returns the first checkpoint occurring strictly after now, and
// when it fires. Past the last checkpoint of the day it rolls over to
// tomorrow's first one.
func Next(now time.Time) (Checkpoint, time.Time) {
	for _, c := range Schedule {
		if occ := c.occurrence(now); occ.After(now) {
			return c, occ
		}
	}
	first := Schedule[0]
	return first, first.occurrence(now.AddDate(0, 0, 1))
}
