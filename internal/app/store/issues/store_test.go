package issues_test

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ezzdayhq/ezzday/internal/app/store/issues"
	"github.com/ezzdayhq/ezzday/internal/domain/models"
	"github.com/ezzdayhq/ezzday/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := issues.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	issue := models.Issue{
		CrewID:       primitive.NewObjectID(),
		RouteID:      primitive.NewObjectID(),
		Address:      "123 Test Street",
		IssueType:    models.IssueNothingOut,
		DateReported: time.Now().UTC(),
	}

	created, err := store.Create(ctx, issue)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.AddressCI == "" {
		t.Error("expected AddressCI to be set")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
	if created.RepeatOffender {
		t.Error("new issue must not start flagged")
	}
}

func TestStore_RepeatAddresses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := issues.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 3; i++ {
		fixtures.CreateIssue(ctx, "123 Test Street", models.IssueContamination)
	}
	fixtures.CreateIssue(ctx, "456 Other Ave", models.IssueNothingOut)

	addresses, err := store.RepeatAddresses(ctx)
	if err != nil {
		t.Fatalf("RepeatAddresses failed: %v", err)
	}
	if len(addresses) != 1 || addresses[0] != "123 Test Street" {
		t.Fatalf("RepeatAddresses = %v, want [123 Test Street]", addresses)
	}
}

func TestStore_RepeatFlagRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := issues.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateIssue(ctx, "123 Test Street", models.IssueBlockedAccess)
	fixtures.CreateIssue(ctx, "123 Test Street", models.IssueBlockedAccess)
	fixtures.CreateIssue(ctx, "456 Other Ave", models.IssueOther)

	n, err := store.SetRepeatFlag(ctx, []string{"123 Test Street", "456 Other Ave"}, true)
	if err != nil {
		t.Fatalf("SetRepeatFlag failed: %v", err)
	}
	if n != 3 {
		t.Errorf("SetRepeatFlag modified %d docs, want 3", n)
	}

	// Only 123 Test Street is genuinely repeat; clearing except it must
	// reset 456 Other Ave.
	cleared, err := store.ClearRepeatFlagExcept(ctx, []string{"123 Test Street"})
	if err != nil {
		t.Fatalf("ClearRepeatFlagExcept failed: %v", err)
	}
	if cleared != 1 {
		t.Errorf("ClearRepeatFlagExcept modified %d docs, want 1", cleared)
	}

	list, err := store.ListByAddress(ctx, "456 Other Ave")
	if err != nil {
		t.Fatalf("ListByAddress failed: %v", err)
	}
	for _, issue := range list {
		if issue.RepeatOffender {
			t.Error("456 Other Ave still flagged after clear")
		}
	}
}

func TestStore_CountByAddress(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := issues.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateIssue(ctx, "789 Elm St", models.IssueWrongCollectionWeek)
	fixtures.CreateIssue(ctx, "789 Elm St", models.IssueWrongCollectionWeek)

	n, err := store.CountByAddress(ctx, "789 Elm St")
	if err != nil {
		t.Fatalf("CountByAddress failed: %v", err)
	}
	if n != 2 {
		t.Errorf("CountByAddress = %d, want 2", n)
	}

	n, err = store.CountByAddress(ctx, "1 Nowhere Ln")
	if err != nil {
		t.Fatalf("CountByAddress failed: %v", err)
	}
	if n != 0 {
		t.Errorf("CountByAddress for unknown address = %d, want 0", n)
	}
}

func TestStore_DeleteReturnsIssue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := issues.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	issue := fixtures.CreateIssue(ctx, "123 Test Street", models.IssueOther)

	deleted, err := store.Delete(ctx, issue.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted.Address != "123 Test Street" {
		t.Errorf("deleted issue address = %q", deleted.Address)
	}

	if _, err := store.GetByID(ctx, issue.ID); err == nil {
		t.Error("expected GetByID to fail after delete")
	}
}

func TestStore_ListRangeExcludesNextMidnight(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := issues.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	inRange := models.Issue{
		CrewID:       primitive.NewObjectID(),
		RouteID:      primitive.NewObjectID(),
		Address:      "123 Test Street",
		IssueType:    models.IssueNothingOut,
		DateReported: day.Add(9 * time.Hour),
	}
	atBoundary := inRange
	atBoundary.Address = "456 Other Ave"
	atBoundary.DateReported = day.AddDate(0, 0, 1) // midnight of the next day

	if _, err := store.Create(ctx, inRange); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, atBoundary); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// A query through the 28th passes the 29th's midnight as the open
	// upper bound; the issue stamped exactly there must not appear.
	list, err := store.List(ctx, day, day.AddDate(0, 0, 1), 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("List returned %d issues, want 1", len(list))
	}
	if list[0].Address != "123 Test Street" {
		t.Errorf("List returned %q, want the in-range issue", list[0].Address)
	}
}
