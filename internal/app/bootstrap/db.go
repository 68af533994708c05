// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/ezzdayhq/ezzday/internal/app/store/assignments"
	"github.com/ezzdayhq/ezzday/internal/app/store/clients"
	"github.com/ezzdayhq/ezzday/internal/app/store/crews"
	"github.com/ezzdayhq/ezzday/internal/app/store/issues"
	"github.com/ezzdayhq/ezzday/internal/app/store/reports"
	"github.com/ezzdayhq/ezzday/internal/app/store/routes"
	"github.com/ezzdayhq/ezzday/internal/app/store/supervisors"
	"github.com/ezzdayhq/ezzday/internal/app/store/zones"
	"github.com/ezzdayhq/ezzday/internal/app/system/timeouts"
)

// ConnectDB establishes the MongoDB connection and verifies it with a
// ping before the rest of startup proceeds.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	connectCtx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		EzzdayMongoClient:   client,
		EzzdayMongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the indexes every store relies on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.EzzdayMongoDatabase

	ensure := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"issues", issues.New(db).EnsureIndexes},
		{"assignments", assignments.New(db).EnsureIndexes},
		{"supervisors", supervisors.New(db).EnsureIndexes},
		{"crews", crews.New(db).EnsureIndexes},
		{"routes", routes.New(db).EnsureIndexes},
		{"zones", zones.New(db).EnsureIndexes},
		{"clients", clients.New(db).EnsureIndexes},
		{"reports", reports.New(db).EnsureIndexes},
	}
	for _, e := range ensure {
		if err := e.fn(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", e.name, err)
		}
		logger.Debug("indexes ensured", zap.String("collection", e.name))
	}
	return nil
}
