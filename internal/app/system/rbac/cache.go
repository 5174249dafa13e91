// internal/app/system/rbac/cache.go
package rbac

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DefaultCacheTTL bounds how stale a cached permission set can be when an
// invalidation is missed (for example a write from another process).
const DefaultCacheTTL = 5 * time.Minute

const cacheKeyPrefix = "rbac:perms:"

// Cache stores resolved permission sets in Redis. All methods degrade to
// a miss or no-op on Redis errors; resolution then falls back to the
// database, so a Redis outage slows permission checks but never fails them.
type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCache wraps a Redis client. A ttl of zero uses DefaultCacheTTL.
func NewCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{rdb: rdb, ttl: ttl, logger: logger}
}

func cacheKey(userID primitive.ObjectID) string {
	return cacheKeyPrefix + userID.Hex()
}

// Get returns the cached permission names for a user, if present.
func (c *Cache) Get(ctx context.Context, userID primitive.ObjectID) ([]string, bool) {
	raw, err := c.rdb.Get(ctx, cacheKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("permission cache read failed", zap.Error(err))
		return nil, false
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		c.logger.Warn("permission cache entry corrupt; dropping",
			zap.String("user_id", userID.Hex()), zap.Error(err))
		c.rdb.Del(ctx, cacheKey(userID))
		return nil, false
	}
	return names, true
}

// Set caches the permission names for a user.
func (c *Cache) Set(ctx context.Context, userID primitive.ObjectID, names []string) {
	raw, err := json.Marshal(names)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(userID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("permission cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached set for one user.
func (c *Cache) Invalidate(ctx context.Context, userID primitive.ObjectID) {
	if err := c.rdb.Del(ctx, cacheKey(userID)).Err(); err != nil {
		c.logger.Warn("permission cache invalidation failed",
			zap.String("user_id", userID.Hex()), zap.Error(err))
	}
}

// InvalidateAll drops every cached permission set by scanning the key
// prefix. Used when a role or permission definition changes.
func (c *Cache) InvalidateAll(ctx context.Context) {
	iter := c.rdb.Scan(ctx, 0, cacheKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= 500 {
			c.rdb.Del(ctx, keys...)
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("permission cache scan failed", zap.Error(err))
	}
	if len(keys) > 0 {
		c.rdb.Del(ctx, keys...)
	}
}
