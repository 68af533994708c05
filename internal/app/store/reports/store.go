// internal/app/store/reports/store.go
package reports

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ezzdayhq/ezzday/internal/domain/models"
)

// Store keeps metadata about generated report artifacts.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("reports")}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "generated_at", Value: -1}},
			Options: options.Index().SetName("idx_reports_generated"),
		},
		{
			Keys:    bson.D{{Key: "report_type", Value: 1}, {Key: "generated_at", Value: -1}},
			Options: options.Index().SetName("idx_reports_type_generated"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Record saves metadata for a report that was just generated.
func (s *Store) Record(ctx context.Context, r models.Report) (models.Report, error) {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Report{}, fmt.Errorf("record report %q: %w", r.ReportType, err)
	}
	return r, nil
}

// ListRecent returns the newest report records.
func (s *Store) ListRecent(ctx context.Context, limit int64) ([]models.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "generated_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.Report
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}
	return out, nil
}
