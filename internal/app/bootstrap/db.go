// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/dalemusser/reliefhub/internal/app/system/indexes"
	"github.com/dalemusser/reliefhub/internal/app/system/validators"
)

// ConnectDB establishes the MongoDB and Redis connections.
//
// Mongo is required: a failed ping aborts startup. Redis only backs the
// permission cache, which degrades to database reads, so a failed Redis
// ping logs a warning and startup continues.
func ConnectDB(ctx context.Context, cfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(cfg.MongoMaxPoolSize).
		SetMinPoolSize(cfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", cfg.MongoDatabase))

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable; permission cache degrades to database reads",
			zap.String("addr", cfg.RedisAddr), zap.Error(err))
	} else {
		logger.Info("connected to Redis", zap.String("addr", cfg.RedisAddr))
	}

	return DBDeps{
		MongoClient: client,
		MongoDB:     client.Database(cfg.MongoDatabase),
		Redis:       rdb,
	}, nil
}

// EnsureSchema applies collection validators and indexes. Both are
// idempotent, so redeploys converge the database to the current shape.
func EnsureSchema(ctx context.Context, cfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := validators.EnsureAll(ctx, deps.MongoDB); err != nil {
		return fmt.Errorf("ensure validators: %w", err)
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDB); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	logger.Info("database schema ensured")
	return nil
}
