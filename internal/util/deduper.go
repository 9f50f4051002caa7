package util

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper guards MQ handlers against redeliveries of the same event.
type Deduper struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDeduper(rdb *redis.Client, ttl time.Duration) *Deduper {
	return &Deduper{rdb: rdb, ttl: ttl}
}

// AcquireOnce returns true the first time a (handler, key) pair is seen
// within the TTL window, false for duplicates. When redis is unavailable
// it returns true so processing is never blocked.
func (d *Deduper) AcquireOnce(ctx context.Context, handler, key string) bool {
	redisKey := fmt.Sprintf("dedup:%s:%s", handler, key)

	ok, err := d.rdb.SetNX(ctx, redisKey, 1, d.ttl).Result()
	if err != nil {
		return true
	}
	return ok
}
