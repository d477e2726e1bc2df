// Package dedupe guards logging side effects against client retries. A
// retried chat request (same requestId) must not double-insert food or
// hydration rows, but must still get its action payload back.
package dedupe

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	logx "github.com/RogerTapfit/tapfit-ai-sync-sub003/pkg/logger"
)

// RedisDeduper implements model.Deduper on Redis SETNX with a TTL.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDeduper(client *redis.Client, ttl time.Duration) *RedisDeduper {
	return &RedisDeduper{client: client, ttl: ttl}
}

// FirstSeen reports whether key is new within the TTL window. Failures are
// treated as first-seen: a broken dedupe store must not block legitimate
// writes, it only loses retry protection.
func (d *RedisDeduper) FirstSeen(ctx context.Context, key string) bool {
	ok, err := d.client.SetNX(ctx, "chat:dedupe:"+key, 1, d.ttl).Result()
	if err != nil {
		logx.Warn().Err(err).Str("key", key).Msg("Dedupe check failed; proceeding as first-seen")
		return true
	}
	return ok
}

// Disabled is the no-op deduper used when Redis is not configured; every
// request counts as first-seen.
type Disabled struct{}

func (Disabled) FirstSeen(context.Context, string) bool { return true }
