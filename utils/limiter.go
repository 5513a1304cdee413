package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// AllowPerMinute is a fixed one-minute window counter keyed by scope and subject.
// With no Redis client every call is allowed.
func AllowPerMinute(ctx context.Context, rdb *redis.Client, scope, subject string, limit int) (bool, error) {
	if rdb == nil || limit <= 0 {
		return true, nil
	}
	window := time.Now().Unix() / 60
	key := fmt.Sprintf("ratelimit:%s:%s:%d", scope, subject, window)

	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if cnt == 1 {
		rdb.Expire(ctx, key, time.Minute)
	}
	return cnt <= int64(limit), nil
}
