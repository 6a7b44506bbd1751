// Package backoff は上限付き指数バックオフによるリトライ処理を提供します。
package backoff

import (
	"context"
	"time"
)

const (
	// DefaultMaxAttempts は試行回数の上限（初回を含む）です。
	DefaultMaxAttempts = 5
	// DefaultBase は待機時間の基準単位です。attempt 回目の待機は Base * 2^attempt になります。
	DefaultBase = time.Second
)

// Policy はリトライの回数と待機時間を定義します。
type Policy struct {
	MaxAttempts int
	Base        time.Duration
	// Sleep はテストで差し替えるための待機関数です。nil の場合は SleepContext を使用します。
	Sleep func(ctx context.Context, d time.Duration) error
}

// Delay は attempt 回目（0始まり）の失敗後に待機する時間を返します。
func (p Policy) Delay(attempt int) time.Duration {
	base := p.Base
	if base <= 0 {
		base = DefaultBase
	}
	return base << uint(attempt)
}

// Do は fn を最大 MaxAttempts 回呼び出します。
//
// fn は結果と「再試行すべきか」を返します。retry が false の時点で即座に終了し、
// その回の結果を返します。すべての試行で retry が true だった場合は最後の結果を返します。
// 最後の試行の後には待機しません。待機中に ctx がキャンセルされた場合は、
// それまでの最後の結果と ctx のエラーを返します。
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) (T, bool, error)) (T, error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = SleepContext
	}

	var last T
	for attempt := 0; attempt < maxAttempts; attempt++ {
		res, retry, err := fn(ctx, attempt)
		last = res
		if err != nil || !retry {
			return last, err
		}
		if attempt == maxAttempts-1 {
			break
		}
		if err := sleep(ctx, p.Delay(attempt)); err != nil {
			return last, err
		}
	}
	return last, nil
}

// SleepContext は d だけ待機します。ctx が先に終了した場合は ctx.Err() を返します。
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
