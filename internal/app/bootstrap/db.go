// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/bizadmin/internal/app/system/indexes"
	"github.com/dalemusser/bizadmin/internal/app/system/timeouts"
	"github.com/dalemusser/bizadmin/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ConnectDB opens the MongoDB client and verifies it with a ping.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(appCfg.MongoURI))
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))
	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema sets up JSON-schema validators and indexes. Validators run
// first because they create the collections the indexes attach to; the
// per-collection index sets are independent and built concurrently.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Long(), logger, "ensure schema")
	defer cancel()

	db := deps.MongoDatabase
	if err := validators.EnsureAll(ctx, db); err != nil {
		return fmt.Errorf("ensure validators: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return indexes.EnsureAll(gctx, db) })
	g.Go(func() error { return seedRoles(gctx, db, logger) })
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("schema ensured")
	return nil
}
