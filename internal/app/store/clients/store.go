// internal/app/store/clients/store.go
package clients

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

// Store manages client accounts.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("clients")}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_clients_nameci"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

func (s *Store) Create(ctx context.Context, client models.Client) (models.Client, error) {
	now := time.Now().UTC()
	if client.ID.IsZero() {
		client.ID = primitive.NewObjectID()
	}
	client.NameCI = text.Fold(client.Name)
	client.CreatedAt = now
	client.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, client); err != nil {
		return models.Client{}, fmt.Errorf("insert client %q: %w", client.Name, err)
	}
	return client, nil
}

func (s *Store) Update(ctx context.Context, client models.Client) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": client.ID}, bson.M{"$set": bson.M{
		"name":          client.Name,
		"name_ci":       text.Fold(client.Name),
		"contact_email": client.ContactEmail,
		"contact_phone": client.ContactPhone,
		"active":        client.Active,
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update client %s: %w", client.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete client %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Client, error) {
	var client models.Client
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&client); err != nil {
		return models.Client{}, err
	}
	return client, nil
}

func (s *Store) ListAll(ctx context.Context) ([]models.Client, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.Client
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode clients: %w", err)
	}
	return out, nil
}
