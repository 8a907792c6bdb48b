// Package usage は編集の完了を外部の利用量管理に通知します。
package usage

import (
	"context"
	"log/slog"
	"sync"
)

// Recorder は適用された編集の回数を受け取ります。
type Recorder interface {
	IncrementUsage(ctx context.Context, userID string, count int) error
}

// LogRecorder は通知をログに記録するだけの Recorder です。
type LogRecorder struct{}

func (LogRecorder) IncrementUsage(ctx context.Context, userID string, count int) error {
	slog.InfoContext(ctx, "利用回数を加算しました", "user_id", userID, "count", count)
	return nil
}

// Counter はユーザーごとの回数をメモリ上で数える Recorder です。
type Counter struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewCounter は空の Counter を作成します。
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

func (c *Counter) IncrementUsage(_ context.Context, userID string, count int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[userID] += count
	return nil
}

// Count は userID の累計回数を返します。
func (c *Counter) Count(userID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[userID]
}

// Total は全ユーザーの累計回数を返します。
func (c *Counter) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.counts {
		n += v
	}
	return n
}
