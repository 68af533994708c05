// internal/app/store/supervisors/store.go
package supervisors

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ezzdayhq/ezzday/internal/domain/models"
)

// Store manages the supervisor roster.
type Store struct {
	c *mongo.Collection
}

// New creates a new supervisors Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("supervisors")}
}

// EnsureIndexes enforces roster email uniqueness.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_supervisors_email"),
		},
		{
			Keys:    bson.D{{Key: "active", Value: 1}, {Key: "full_name_ci", Value: 1}},
			Options: options.Index().SetName("idx_supervisors_active_name"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create adds a supervisor to the roster.
func (s *Store) Create(ctx context.Context, sup models.Supervisor) (models.Supervisor, error) {
	now := time.Now().UTC()
	if sup.ID.IsZero() {
		sup.ID = primitive.NewObjectID()
	}
	sup.FullNameCI = text.Fold(sup.FullName)
	sup.CreatedAt = now
	sup.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, sup); err != nil {
		return models.Supervisor{}, fmt.Errorf("insert supervisor %q: %w", sup.Email, err)
	}
	return sup, nil
}

// Update replaces the mutable fields of a roster entry.
func (s *Store) Update(ctx context.Context, sup models.Supervisor) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": sup.ID}, bson.M{"$set": bson.M{
		"full_name":    sup.FullName,
		"full_name_ci": text.Fold(sup.FullName),
		"email":        sup.Email,
		"phone":        sup.Phone,
		"active":       sup.Active,
		"updated_at":   time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update supervisor %s: %w", sup.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a roster entry.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete supervisor %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// GetByID fetches one roster entry.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Supervisor, error) {
	var sup models.Supervisor
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sup); err != nil {
		return models.Supervisor{}, err
	}
	return sup, nil
}

// ListAll returns the active roster, the fan-out set for every escalation.
func (s *Store) ListAll(ctx context.Context) ([]models.Supervisor, error) {
	cur, err := s.c.Find(ctx, bson.M{"active": true},
		options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list supervisors: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.Supervisor
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode supervisors: %w", err)
	}
	return out, nil
}
