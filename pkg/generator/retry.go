package generator

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Delay は attempt 回目 (1 始まり) の再試行の前に待つ時間です。
// base を毎回倍にするので、base が 2 秒なら 2s, 4s, 8s となります。
func Delay(attempt int, base time.Duration) time.Duration {
	if attempt < 1 {
		return 0
	}
	return base << (attempt - 1)
}

// doublingBackOff は Delay に従う backoff.BackOff です。
type doublingBackOff struct {
	base    time.Duration
	attempt int
}

func (b *doublingBackOff) NextBackOff() time.Duration {
	b.attempt++
	return Delay(b.attempt, b.base)
}

func (b *doublingBackOff) Reset() { b.attempt = 0 }

var _ backoff.BackOff = (*doublingBackOff)(nil)
