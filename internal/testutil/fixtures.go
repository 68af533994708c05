// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ezzdayhq/ezzday/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateSupervisor inserts an active supervisor and returns it.
func (f *Fixtures) CreateSupervisor(ctx context.Context, fullName, email string) models.Supervisor {
	f.t.Helper()

	now := time.Now().UTC()
	sup := models.Supervisor{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("supervisors").InsertOne(ctx, sup); err != nil {
		f.t.Fatalf("failed to create test supervisor: %v", err)
	}
	return sup
}

// CreateIssue inserts an issue at the given address reported now.
func (f *Fixtures) CreateIssue(ctx context.Context, address, issueType string) models.Issue {
	f.t.Helper()

	now := time.Now().UTC()
	issue := models.Issue{
		ID:           primitive.NewObjectID(),
		CrewID:       primitive.NewObjectID(),
		RouteID:      primitive.NewObjectID(),
		Address:      address,
		AddressCI:    text.Fold(address),
		IssueType:    issueType,
		DateReported: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("issues").InsertOne(ctx, issue); err != nil {
		f.t.Fatalf("failed to create test issue: %v", err)
	}
	return issue
}

// CreateAssignment inserts an assignment on the given collection date
// with attendance unconfirmed and no status updates.
func (f *Fixtures) CreateAssignment(ctx context.Context, doc time.Time) models.Assignment {
	f.t.Helper()

	now := time.Now().UTC()
	day := models.CollectionDate(doc)
	a := models.Assignment{
		ID:            primitive.NewObjectID(),
		CrewID:        primitive.NewObjectID(),
		RouteID:       primitive.NewObjectID(),
		ClientID:      primitive.NewObjectID(),
		ZoneID:        primitive.NewObjectID(),
		DOC:           day,
		DOW:           day.Weekday().String(),
		WeekType:      models.WeekTypeRegular,
		StartTime:     models.DefaultStartTime,
		StatusUpdates: models.NewStatusUpdates(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	_, a.WeekNumber = day.ISOWeek()
	if _, err := f.db.Collection("assignments").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test assignment: %v", err)
	}
	return a
}

// CreateZone inserts a zone and returns it.
func (f *Fixtures) CreateZone(ctx context.Context, name string) models.Zone {
	f.t.Helper()

	now := time.Now().UTC()
	zone := models.Zone{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("zones").InsertOne(ctx, zone); err != nil {
		f.t.Fatalf("failed to create test zone: %v", err)
	}
	return zone
}
