// internal/app/store/issues/store.go
package issues

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

// Store manages issue records.
type Store struct {
	c *mongo.Collection
}

// New creates a new issues Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("issues")}
}

// EnsureIndexes creates the indexes the offender aggregation and the list
// screens rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Offender grouping and per-address recounts
		{
			Keys:    bson.D{{Key: "address", Value: 1}},
			Options: options.Index().SetName("idx_issues_address"),
		},
		// Date-range report queries, latest-first listing
		{
			Keys:    bson.D{{Key: "date_reported", Value: -1}},
			Options: options.Index().SetName("idx_issues_datereported"),
		},
		// Issues per route
		{
			Keys:    bson.D{{Key: "route_id", Value: 1}, {Key: "date_reported", Value: -1}},
			Options: options.Index().SetName("idx_issues_route_datereported"),
		},
		// Prefix search on folded address
		{
			Keys:    bson.D{{Key: "address_ci", Value: 1}},
			Options: options.Index().SetName("idx_issues_addressci"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a new issue and returns it with its assigned ID.
func (s *Store) Create(ctx context.Context, issue models.Issue) (models.Issue, error) {
	now := time.Now().UTC()
	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	if issue.DateReported.IsZero() {
		issue.DateReported = now
	}
	issue.AddressCI = text.Fold(issue.Address)
	issue.CreatedAt = now
	issue.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, issue); err != nil {
		return models.Issue{}, fmt.Errorf("insert issue at %q: %w", issue.Address, err)
	}
	return issue, nil
}

// Update replaces the mutable fields of an existing issue.
func (s *Store) Update(ctx context.Context, issue models.Issue) error {
	update := bson.M{"$set": bson.M{
		"crew_id":       issue.CrewID,
		"route_id":      issue.RouteID,
		"address":       issue.Address,
		"address_ci":    text.Fold(issue.Address),
		"description":   issue.Description,
		"issue_type":    issue.IssueType,
		"date_reported": issue.DateReported,
		"updated_at":    time.Now().UTC(),
	}}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": issue.ID}, update)
	if err != nil {
		return fmt.Errorf("update issue %s: %w", issue.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes an issue. It returns the deleted record so the caller can
// resync the repeat-offender flag for the vacated address.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (models.Issue, error) {
	var issue models.Issue
	err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&issue)
	if err != nil {
		return models.Issue{}, fmt.Errorf("delete issue %s: %w", id.Hex(), err)
	}
	return issue, nil
}

// GetByID fetches one issue.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Issue, error) {
	var issue models.Issue
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&issue); err != nil {
		return models.Issue{}, err
	}
	return issue, nil
}

// List returns issues newest-first, optionally bounded by report date.
// The range is half-open: from inclusive, to exclusive, so callers pass
// the midnight after the last day they want.
func (s *Store) List(ctx context.Context, from, to time.Time, limit int64) ([]models.Issue, error) {
	filter := bson.M{}
	dateFilter := bson.M{}
	if !from.IsZero() {
		dateFilter["$gte"] = from
	}
	if !to.IsZero() {
		dateFilter["$lt"] = to
	}
	if len(dateFilter) > 0 {
		filter["date_reported"] = dateFilter
	}

	opts := options.Find().SetSort(bson.D{{Key: "date_reported", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.Issue
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode issues: %w", err)
	}
	return out, nil
}

// ListByAddress returns every issue at the exact address, oldest-first.
func (s *Store) ListByAddress(ctx context.Context, address string) ([]models.Issue, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date_reported", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"address": address}, opts)
	if err != nil {
		return nil, fmt.Errorf("list issues at %q: %w", address, err)
	}
	defer cur.Close(ctx)

	var out []models.Issue
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode issues at %q: %w", address, err)
	}
	return out, nil
}

// CountByAddress counts issues at the exact address string.
func (s *Store) CountByAddress(ctx context.Context, address string) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"address": address})
	if err != nil {
		return 0, fmt.Errorf("count issues at %q: %w", address, err)
	}
	return n, nil
}

// RepeatAddresses returns every address with more than one issue, sorted.
// Grouping is an exact string match on the raw address.
func (s *Store) RepeatAddresses(ctx context.Context) ([]string, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":         "$address",
			"occurrences": bson.M{"$sum": 1},
		}}},
		{{Key: "$match", Value: bson.M{"occurrences": bson.M{"$gt": 1}}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate repeat addresses: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Address string `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode repeat addresses: %w", err)
	}
	addresses := make([]string, 0, len(rows))
	for _, row := range rows {
		addresses = append(addresses, row.Address)
	}
	return addresses, nil
}

// SetRepeatFlag writes the repeat_offender flag for every issue whose
// address is in the given set. One statement covers the whole set, so the
// flag update for an address group applies atomically per document without
// a read-modify-write window.
func (s *Store) SetRepeatFlag(ctx context.Context, addresses []string, flag bool) (int64, error) {
	if len(addresses) == 0 {
		return 0, nil
	}
	res, err := s.c.UpdateMany(ctx,
		bson.M{"address": bson.M{"$in": addresses}},
		bson.M{"$set": bson.M{"repeat_offender": flag, "updated_at": time.Now().UTC()}})
	if err != nil {
		return 0, fmt.Errorf("set repeat flag for %d addresses: %w", len(addresses), err)
	}
	return res.ModifiedCount, nil
}

// ClearRepeatFlagExcept resets repeat_offender on every issue whose address
// is NOT in the given set. Used by the batch detector to reconcile singleton
// addresses back to false.
func (s *Store) ClearRepeatFlagExcept(ctx context.Context, addresses []string) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{
			"address":         bson.M{"$nin": addresses},
			"repeat_offender": true,
		},
		bson.M{"$set": bson.M{"repeat_offender": false, "updated_at": time.Now().UTC()}})
	if err != nil {
		return 0, fmt.Errorf("clear repeat flags: %w", err)
	}
	return res.ModifiedCount, nil
}

// SetRepeatFlagForAddress writes the flag to all issues at one exact
// address. This is the save-path recount target.
func (s *Store) SetRepeatFlagForAddress(ctx context.Context, address string, flag bool) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"address": address},
		bson.M{"$set": bson.M{"repeat_offender": flag, "updated_at": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("set repeat flag at %q: %w", address, err)
	}
	return nil
}
