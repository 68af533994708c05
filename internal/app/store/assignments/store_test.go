package assignments_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ezzdayhq/ezzday/internal/app/store/assignments"
	"github.com/ezzdayhq/ezzday/internal/domain/models"
	"github.com/ezzdayhq/ezzday/internal/testutil"
)

func newAssignment(doc time.Time) models.Assignment {
	return models.Assignment{
		CrewID:   primitive.NewObjectID(),
		RouteID:  primitive.NewObjectID(),
		ClientID: primitive.NewObjectID(),
		ZoneID:   primitive.NewObjectID(),
		DOC:      doc,
	}
}

func TestStore_Create_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := assignments.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	doc := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC) // a Friday

	created, err := store.Create(ctx, newAssignment(doc))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.StartTime != models.DefaultStartTime {
		t.Errorf("StartTime = %q, want %q", created.StartTime, models.DefaultStartTime)
	}
	if created.DOW != "Friday" {
		t.Errorf("DOW = %q, want Friday", created.DOW)
	}
	if created.WeekType != models.WeekTypeRegular {
		t.Errorf("WeekType = %q, want Regular", created.WeekType)
	}
	_, wantWeek := doc.ISOWeek()
	if created.WeekNumber != wantWeek {
		t.Errorf("WeekNumber = %d, want %d", created.WeekNumber, wantWeek)
	}
	for _, label := range models.CheckpointLabels {
		if v, ok := created.StatusUpdates[label]; !ok || v != nil {
			t.Errorf("StatusUpdates[%q] = %v, want present and nil", label, v)
		}
	}
}

func TestStore_SetStatus_WriteOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := assignments.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newAssignment(time.Now().UTC()))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.SetStatus(ctx, created.ID, models.Checkpoint11AM, "on schedule"); err != nil {
		t.Fatalf("first SetStatus failed: %v", err)
	}

	err = store.SetStatus(ctx, created.ID, models.Checkpoint11AM, "changed my mind")
	if !errors.Is(err, assignments.ErrStatusAlreadySet) {
		t.Fatalf("second SetStatus err = %v, want ErrStatusAlreadySet", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if v := got.StatusUpdates[models.Checkpoint11AM]; v == nil || *v != "on schedule" {
		t.Errorf("11AM status = %v, want the first submission", v)
	}
}

func TestStore_SetStatus_UnknownLabel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := assignments.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newAssignment(time.Now().UTC()))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err = store.SetStatus(ctx, created.ID, "2PM", "nope")
	if !errors.Is(err, assignments.ErrUnknownCheckpoint) {
		t.Fatalf("SetStatus err = %v, want ErrUnknownCheckpoint", err)
	}
}

func TestStore_ConfirmAttendance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := assignments.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newAssignment(time.Now().UTC()))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.ConfirmAttendance(ctx, created.ID, true, true); err != nil {
		t.Fatalf("ConfirmAttendance failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !got.AttendanceConfirmed || !got.PPECompliance {
		t.Errorf("attendance=%v ppe=%v, want both true", got.AttendanceConfirmed, got.PPECompliance)
	}
}

func TestStore_Complete_ComputesHours(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := assignments.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newAssignment(time.Now().UTC()))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Default start 06:30, end 14:45 is 8.25 hours.
	done, err := store.Complete(ctx, created.ID, "14:45")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if done.EndTime == nil || *done.EndTime != "14:45" {
		t.Errorf("EndTime = %v, want 14:45", done.EndTime)
	}
	if math.Abs(done.CompletionTime-8.25) > 1e-9 {
		t.Errorf("CompletionTime = %v, want 8.25", done.CompletionTime)
	}
}

func TestStore_ForDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := assignments.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	today := time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC)
	fixtures.CreateAssignment(ctx, today)
	fixtures.CreateAssignment(ctx, today)
	fixtures.CreateAssignment(ctx, today.AddDate(0, 0, 1))

	list, err := store.ForDate(ctx, today)
	if err != nil {
		t.Fatalf("ForDate failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ForDate returned %d assignments, want 2", len(list))
	}
	for _, a := range list {
		if a.StatusUpdates == nil {
			t.Error("expected normalized StatusUpdates on load")
		}
	}
}
