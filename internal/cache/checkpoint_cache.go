package cache

import (
	"context"
	"encoding/json"
	"time"

	dom "github.com/meena20221515-star/CHECKPOINT-MASTER/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyList = "checkpoint:list"

// CheckpointCache caches the full checkpoint list in Redis. The list is the
// only cached read: search and ordering happen client-side on the full set.
type CheckpointCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCheckpointCache returns a new CheckpointCache.
func NewCheckpointCache(rdb *redis.Client, ttl time.Duration) *CheckpointCache {
	return &CheckpointCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached list or nil on miss.
func (c *CheckpointCache) GetList(ctx context.Context) ([]dom.Checkpoint, error) {
	b, err := c.rdb.Get(ctx, keyList).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Checkpoint
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the list in cache.
func (c *CheckpointCache) SetList(ctx context.Context, list []dom.Checkpoint) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyList, b, c.ttl).Err()
}

// Invalidate removes the cached list (cache invalidation on every write).
func (c *CheckpointCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, keyList).Err()
}
