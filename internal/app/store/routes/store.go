// internal/app/store/routes/store.go
package routes

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

// Store manages collection routes.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("routes")}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "zone_id", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_routes_zone_nameci"),
		},
		{
			Keys:    bson.D{{Key: "dow", Value: 1}},
			Options: options.Index().SetName("idx_routes_dow"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

func (s *Store) Create(ctx context.Context, route models.Route) (models.Route, error) {
	now := time.Now().UTC()
	if route.ID.IsZero() {
		route.ID = primitive.NewObjectID()
	}
	route.NameCI = text.Fold(route.Name)
	route.CreatedAt = now
	route.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, route); err != nil {
		return models.Route{}, fmt.Errorf("insert route %q: %w", route.Name, err)
	}
	return route, nil
}

func (s *Store) Update(ctx context.Context, route models.Route) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": route.ID}, bson.M{"$set": bson.M{
		"name":       route.Name,
		"name_ci":    text.Fold(route.Name),
		"zone_id":    route.ZoneID,
		"dow":        route.DOW,
		"stop_count": route.StopCount,
		"active":     route.Active,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update route %s: %w", route.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete route %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Route, error) {
	var route models.Route
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&route); err != nil {
		return models.Route{}, err
	}
	return route, nil
}

func (s *Store) ListAll(ctx context.Context) ([]models.Route, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.Route
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode routes: %w", err)
	}
	return out, nil
}
