// internal/app/store/zones/store.go
package zones

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

// Store manages service zones.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("zones")}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_zones_nameci"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

func (s *Store) Create(ctx context.Context, zone models.Zone) (models.Zone, error) {
	now := time.Now().UTC()
	if zone.ID.IsZero() {
		zone.ID = primitive.NewObjectID()
	}
	zone.NameCI = text.Fold(zone.Name)
	zone.CreatedAt = now
	zone.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, zone); err != nil {
		return models.Zone{}, fmt.Errorf("insert zone %q: %w", zone.Name, err)
	}
	return zone, nil
}

func (s *Store) Update(ctx context.Context, zone models.Zone) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": zone.ID}, bson.M{"$set": bson.M{
		"name":        zone.Name,
		"name_ci":     text.Fold(zone.Name),
		"description": zone.Description,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update zone %s: %w", zone.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete zone %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Zone, error) {
	var zone models.Zone
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&zone); err != nil {
		return models.Zone{}, err
	}
	return zone, nil
}

func (s *Store) ListAll(ctx context.Context) ([]models.Zone, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.Zone
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode zones: %w", err)
	}
	return out, nil
}
