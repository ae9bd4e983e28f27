package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// INCRと初回のPEXPIREを原子的に実行し、カウントと残りTTL(ms)を返す
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

// RedisLimiter はRedisで複数インスタンス間のカウントを共有するLimiterです。
type RedisLimiter struct {
	rdb    redis.Scripter
	limit  int
	window time.Duration
	prefix string
}

// NewRedisLimiter は新しいRedisLimiterを生成します。キーにはprefixが付きます。
func NewRedisLimiter(rdb redis.Scripter, limit int, window time.Duration, prefix string) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, limit: limit, window: window, prefix: prefix}
}

// Allow はkeyのカウントを1つ進め、上限内かどうかを返します。
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	vals, err := incrExpireScript.Run(ctx, l.rdb, []string{l.prefix + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(vals) != 2 {
		return Result{}, fmt.Errorf("rate limit script: unexpected reply %v", vals)
	}

	resetIn := time.Duration(vals[1]) * time.Millisecond
	if resetIn < 0 {
		resetIn = l.window
	}
	return newResult(l.limit, int(vals[0]), resetIn), nil
}
