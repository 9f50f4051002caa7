package util

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"taskboard/internal/model"
)

// TaskStatsCache keeps computed task statistics per visibility scope.
// Scope 0 is the unscoped (admin) view; any other scope is a user ID.
// Cache failures are treated as misses so the store stays authoritative.
type TaskStatsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewTaskStatsCache(rdb *redis.Client, ttl time.Duration) *TaskStatsCache {
	return &TaskStatsCache{rdb: rdb, ttl: ttl}
}

func statsKey(scope int) string {
	return fmt.Sprintf("stats:scope:%d", scope)
}

func (c *TaskStatsCache) Get(ctx context.Context, scope int) (*model.TaskStats, bool) {
	data, err := c.rdb.Get(ctx, statsKey(scope)).Bytes()
	if err != nil {
		return nil, false
	}

	var stats model.TaskStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, false
	}
	return &stats, true
}

func (c *TaskStatsCache) Set(ctx context.Context, scope int, stats *model.TaskStats) {
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, statsKey(scope), data, c.ttl)
}

func (c *TaskStatsCache) Invalidate(ctx context.Context, scopes ...int) {
	if len(scopes) == 0 {
		return
	}
	keys := make([]string, 0, len(scopes))
	for _, scope := range scopes {
		keys = append(keys, statsKey(scope))
	}
	c.rdb.Del(ctx, keys...)
}
