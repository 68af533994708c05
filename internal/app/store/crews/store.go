// internal/app/store/crews/store.go
package crews

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

// Store manages crew records.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("crews")}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_crews_nameci"),
		},
		{
			Keys:    bson.D{{Key: "zone_id", Value: 1}},
			Options: options.Index().SetName("idx_crews_zone"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

func (s *Store) Create(ctx context.Context, crew models.Crew) (models.Crew, error) {
	now := time.Now().UTC()
	if crew.ID.IsZero() {
		crew.ID = primitive.NewObjectID()
	}
	crew.NameCI = text.Fold(crew.Name)
	crew.CreatedAt = now
	crew.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, crew); err != nil {
		return models.Crew{}, fmt.Errorf("insert crew %q: %w", crew.Name, err)
	}
	return crew, nil
}

func (s *Store) Update(ctx context.Context, crew models.Crew) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": crew.ID}, bson.M{"$set": bson.M{
		"name":       crew.Name,
		"name_ci":    text.Fold(crew.Name),
		"driver_id":  crew.DriverID,
		"loader_ids": crew.LoaderIDs,
		"truck_id":   crew.TruckID,
		"zone_id":    crew.ZoneID,
		"active":     crew.Active,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update crew %s: %w", crew.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete crew %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Crew, error) {
	var crew models.Crew
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&crew); err != nil {
		return models.Crew{}, err
	}
	return crew, nil
}

func (s *Store) ListAll(ctx context.Context) ([]models.Crew, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list crews: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.Crew
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode crews: %w", err)
	}
	return out, nil
}
