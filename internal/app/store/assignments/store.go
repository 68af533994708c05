// internal/app/store/assignments/store.go
package assignments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ezzdayhq/ezzday/internal/domain/models"
)

// ErrStatusAlreadySet is returned when a checkpoint status would overwrite
// operator text that is already recorded. Checkpoint values are write-once.
var ErrStatusAlreadySet = errors.New("checkpoint status already set")

// ErrUnknownCheckpoint is returned for a label outside the recognized set.
var ErrUnknownCheckpoint = errors.New("unknown checkpoint label")

// Store manages assignment records.
type Store struct {
	c *mongo.Collection
}

// New creates a new assignments Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("assignments")}
}

// EnsureIndexes creates indexes for the monitor's daily fetch and the
// report queries.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// The monitor fetches by collection date on every checkpoint tick.
		{
			Keys:    bson.D{{Key: "doc", Value: 1}},
			Options: options.Index().SetName("idx_assignments_doc"),
		},
		{
			Keys:    bson.D{{Key: "crew_id", Value: 1}, {Key: "doc", Value: -1}},
			Options: options.Index().SetName("idx_assignments_crew_doc"),
		},
		{
			Keys:    bson.D{{Key: "week_number", Value: 1}},
			Options: options.Index().SetName("idx_assignments_week"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a new assignment, filling derived defaults: week number
// and day-of-week from DOC, the default start time, and the canonical
// checkpoint map.
func (s *Store) Create(ctx context.Context, a models.Assignment) (models.Assignment, error) {
	now := time.Now().UTC()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.DOC.IsZero() {
		a.DOC = models.CollectionDate(now)
	} else {
		a.DOC = models.CollectionDate(a.DOC)
	}
	if a.WeekNumber == 0 {
		_, a.WeekNumber = a.DOC.ISOWeek()
	}
	if a.DOW == "" {
		a.DOW = a.DOC.Weekday().String()
	}
	if a.WeekType == "" {
		a.WeekType = models.WeekTypeRegular
	}
	if a.StartTime == "" {
		a.StartTime = models.DefaultStartTime
	}
	a.NormalizeStatusUpdates()
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Assignment{}, fmt.Errorf("insert assignment for %s: %w", a.DOC.Format("2006-01-02"), err)
	}
	return a, nil
}

// Update replaces the schedulable fields of an assignment. Checkpoint
// statuses, attendance, and completion go through their dedicated methods.
func (s *Store) Update(ctx context.Context, a models.Assignment) error {
	a.DOC = models.CollectionDate(a.DOC)
	_, week := a.DOC.ISOWeek()
	update := bson.M{"$set": bson.M{
		"crew_id":     a.CrewID,
		"route_id":    a.RouteID,
		"client_id":   a.ClientID,
		"zone_id":     a.ZoneID,
		"doc":         a.DOC,
		"dow":         a.DOC.Weekday().String(),
		"week_number": week,
		"week_type":   a.WeekType,
		"start_time":  a.StartTime,
		"updated_at":  time.Now().UTC(),
	}}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": a.ID}, update)
	if err != nil {
		return fmt.Errorf("update assignment %s: %w", a.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes an assignment.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete assignment %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// GetByID fetches one assignment with its checkpoint map normalized.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Assignment, error) {
	var a models.Assignment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return models.Assignment{}, err
	}
	a.NormalizeStatusUpdates()
	return a, nil
}

// ForDate returns every assignment whose collection date is the calendar
// day of t.
func (s *Store) ForDate(ctx context.Context, t time.Time) ([]models.Assignment, error) {
	day := models.CollectionDate(t)
	cur, err := s.c.Find(ctx, bson.M{"doc": day},
		options.Find().SetSort(bson.D{{Key: "crew_id", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find assignments for %s: %w", day.Format("2006-01-02"), err)
	}
	defer cur.Close(ctx)

	var out []models.Assignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode assignments for %s: %w", day.Format("2006-01-02"), err)
	}
	for i := range out {
		out[i].NormalizeStatusUpdates()
	}
	return out, nil
}

// ForDateRange returns assignments with DOC in [from, to], for reports.
func (s *Store) ForDateRange(ctx context.Context, from, to time.Time) ([]models.Assignment, error) {
	filter := bson.M{"doc": bson.M{
		"$gte": models.CollectionDate(from),
		"$lte": models.CollectionDate(to),
	}}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "doc", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find assignments in range: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.Assignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode assignments in range: %w", err)
	}
	for i := range out {
		out[i].NormalizeStatusUpdates()
	}
	return out, nil
}

// ConfirmAttendance records the morning attendance and PPE confirmation.
func (s *Store) ConfirmAttendance(ctx context.Context, id primitive.ObjectID, attendance, ppe bool) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"attendance_confirmed": attendance,
		"ppe_compliance":       ppe,
		"updated_at":           time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("confirm attendance for %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetStatus records operator text for one checkpoint. The write is guarded
// so an already-set checkpoint is never overwritten: the filter only
// matches while the slot is still null.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, label, status string) error {
	known := false
	for _, l := range models.CheckpointLabels {
		if l == label {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: %q", ErrUnknownCheckpoint, label)
	}

	field := "status_updates." + label
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, field: nil},
		bson.M{"$set": bson.M{field: status, "updated_at": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("set %s status for %s: %w", label, id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		// Distinguish "gone" from "already set".
		n, cerr := s.c.CountDocuments(ctx, bson.M{"_id": id})
		if cerr != nil {
			return fmt.Errorf("set %s status for %s: %w", label, id.Hex(), cerr)
		}
		if n == 0 {
			return mongo.ErrNoDocuments
		}
		return ErrStatusAlreadySet
	}
	return nil
}

// Complete sets the end time and the derived completion hours.
func (s *Store) Complete(ctx context.Context, id primitive.ObjectID, endTime string) (models.Assignment, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Assignment{}, err
	}
	hours, err := a.CompletionHours(endTime)
	if err != nil {
		return models.Assignment{}, err
	}
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"end_time":        endTime,
		"completion_time": hours,
		"updated_at":      now,
	}})
	if err != nil {
		return models.Assignment{}, fmt.Errorf("complete assignment %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return models.Assignment{}, mongo.ErrNoDocuments
	}
	a.EndTime = &endTime
	a.CompletionTime = hours
	a.UpdatedAt = now
	return a, nil
}
