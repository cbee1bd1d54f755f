package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// allowScript takes a slot only when the window still has one. The TTL is
// armed by the increment that opens the window.
var allowScript = redis.NewScript(`
local count = tonumber(redis.call("GET", KEYS[1]) or "0")
if count >= tonumber(ARGV[1]) then
	return 0
end
count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 1
`)

var incrementScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// Redis keeps the windows in Redis so several processes share one budget.
type Redis struct {
	rdb         *redis.Client
	maxRequests int
	length      time.Duration
}

func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err = rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return rdb, nil
}

func NewRedis(rdb *redis.Client, maxRequests int, length time.Duration) *Redis {
	return &Redis{rdb: rdb, maxRequests: maxRequests, length: length}
}

func (r *Redis) IsLimited(ctx context.Context, identity string) (bool, error) {
	count, err := r.rdb.Get(ctx, key(identity)).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get counter: %w", err)
	}

	return count >= r.maxRequests, nil
}

func (r *Redis) Increment(ctx context.Context, identity string) error {
	if err := incrementScript.Run(ctx, r.rdb, []string{key(identity)}, r.length.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("increment counter: %w", err)
	}

	return nil
}

func (r *Redis) Allow(ctx context.Context, identity string) (bool, error) {
	allowed, err := allowScript.Run(ctx, r.rdb, []string{key(identity)}, r.maxRequests, r.length.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("run allow script: %w", err)
	}

	return allowed == 1, nil
}

func key(identity string) string {
	return redisKeyPrefix + identity
}
