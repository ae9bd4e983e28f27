// Package ratelimiter は固定ウィンドウ方式のレート制限を提供します。
package ratelimiter

import (
	"context"
	"sync"
	"time"
)

// Result は1回の判定結果です。
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	// ResetIn はウィンドウがリセットされるまでの時間
	ResetIn time.Duration
}

// Limiter はキーごとの呼び出し頻度を制限するインターフェースです。
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

func newResult(limit, count int, resetIn time.Duration) Result {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetIn:   resetIn,
	}
}

// sweepThreshold を超えたら期限切れのウィンドウを掃除する
const sweepThreshold = 1024

type window struct {
	count     int
	lastReset time.Time
}

// RateLimiter はプロセス内メモリで動作するLimiterです。Redisが使えない場合のフォールバックです。
type RateLimiter struct {
	mu       sync.Mutex
	limit    int           // ウィンドウあたりの上限
	interval time.Duration // どの単位でリセットするか
	windows  map[string]*window
	now      func() time.Time
}

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		interval: interval,
		windows:  make(map[string]*window),
		now:      time.Now,
	}
}

// Allow はkeyのカウントを1つ進め、上限内かどうかを返します。
func (rl *RateLimiter) Allow(_ context.Context, key string) (Result, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	// interval を過ぎたらカウントリセット
	if !ok || now.Sub(w.lastReset) >= rl.interval {
		if !ok && len(rl.windows) >= sweepThreshold {
			rl.sweep(now)
		}
		w = &window{lastReset: now}
		rl.windows[key] = w
	}

	w.count++
	return newResult(rl.limit, w.count, rl.interval-now.Sub(w.lastReset)), nil
}

func (rl *RateLimiter) sweep(now time.Time) {
	for k, w := range rl.windows {
		if now.Sub(w.lastReset) >= rl.interval {
			delete(rl.windows, k)
		}
	}
}
