package ratelimiter

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	WaitIfNeeded(ctx context.Context) error
}

// RateLimiterは、API呼び出しなどの操作の頻度を制限します。
// 複数のgoroutineから同時に呼び出しても安全です。
type RateLimiter struct {
	mu       sync.Mutex
	limit    int           // interval あたりの上限。0以下なら無制限
	interval time.Duration // 上限を数える時間幅
	starts   []time.Time   // 予約済みの開始時刻（昇順、最大 limit 件）
	now      func() time.Time
}

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

// NewFromEnv は RAPIDAPI_MAX_CALLS_PER_MINUTE から1分あたりの上限を読み込みます。
// 未設定または不正な値の場合は無制限になります。
func NewFromEnv() *RateLimiter {
	limit, _ := strconv.Atoi(os.Getenv("RAPIDAPI_MAX_CALLS_PER_MINUTE"))
	return NewRateLimiter(limit, time.Minute)
}

// reserve は枠を1つ確保し、確保までに待つべき時間を返します。
// どの interval の幅をとっても、開始する呼び出しは limit 件を超えません。
func (rl *RateLimiter) reserve() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	start := now
	if len(rl.starts) >= rl.limit {
		// limit 件前の開始から interval が経過するまで待つ
		if next := rl.starts[0].Add(rl.interval); next.After(start) {
			start = next
		}
		rl.starts = rl.starts[1:]
	}
	rl.starts = append(rl.starts, start)
	return start.Sub(now)
}

// WaitIfNeededはレートリミットの上限に達しているかを確認し、必要であれば待機します。
// 待機中に ctx が終了した場合は ctx.Err() を返します。ロックを保持したまま待機することはありません。
func (rl *RateLimiter) WaitIfNeeded(ctx context.Context) error {
	if rl == nil || rl.limit <= 0 {
		return nil
	}

	wait := rl.reserve()
	if wait <= 0 {
		return nil
	}

	slog.Info("rate limit reached, waiting", "limit", rl.limit, "wait", wait)
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
