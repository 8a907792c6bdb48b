package generator

import (
	"math"
	"testing"
)

func TestSeedUtils(t *testing.T) {
	t.Run("dereferenceSeed: nil の場合は 0 を返すのだ", func(t *testing.T) {
		if got := dereferenceSeed(nil); got != 0 {
			t.Errorf("expected 0, got %v", got)
		}
	})

	t.Run("dereferenceSeed: 値がある場合はその値を返すのだ", func(t *testing.T) {
		var val int64 = 999
		if got := dereferenceSeed(&val); got != 999 {
			t.Errorf("expected 999, got %v", got)
		}
	})

	t.Run("seedToPtrInt32: nil は nil のままなのだ", func(t *testing.T) {
		if got := seedToPtrInt32(nil); got != nil {
			t.Errorf("expected nil, got %v", *got)
		}
	})

	t.Run("seedToPtrInt32: int32 に変換されるのだ", func(t *testing.T) {
		var val int64 = 12345
		got := seedToPtrInt32(&val)
		if got == nil || *got != 12345 {
			t.Errorf("expected 12345, got %v", got)
		}
	})

	t.Run("seedToPtrInt32: int32 に収まらない値は送らない", func(t *testing.T) {
		for _, v := range []int64{math.MaxInt32 + 1, math.MinInt32 - 1} {
			if got := seedToPtrInt32(&v); got != nil {
				t.Errorf("seed %d: expected nil, got %v", v, *got)
			}
		}
	})
}
