package ratelimit

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// FixedWindowLimiter считает запросы на ключ в фиксированном окне.
// INCR key; при первом попадании PEXPIRE key window.
type FixedWindowLimiter struct {
	rdb    goredis.Scripter
	prefix string
}

type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

var incrScript = goredis.NewScript(`
local c = redis.call("INCR", KEYS[1])
if c == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {c, ttl}
`)

// NewFixedWindowLimiter с nil-клиентом пропускает всё (Redis не настроен).
func NewFixedWindowLimiter(rdb goredis.Scripter) *FixedWindowLimiter {
	return &FixedWindowLimiter{rdb: rdb, prefix: "rl:"}
}

func (l *FixedWindowLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	if l == nil || l.rdb == nil || limit <= 0 {
		return Decision{Allowed: true, Limit: limit, Remaining: limit}, nil
	}
	if window <= 0 {
		window = time.Minute
	}

	res, err := incrScript.Run(ctx, l.rdb, []string{l.prefix + key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit eval: %w", err)
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("ratelimit eval: unexpected result %v", res)
	}

	count := int(res[0])
	d := Decision{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: limit - count,
	}
	if d.Remaining < 0 {
		d.Remaining = 0
	}
	if !d.Allowed {
		d.RetryAfter = time.Duration(res[1]) * time.Millisecond
	}
	return d, nil
}

// NewRedisClient поднимает клиента и проверяет соединение.
func NewRedisClient(ctx context.Context, addr, password string) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr, Password: password})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
