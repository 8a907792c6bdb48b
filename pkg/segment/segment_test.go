package segment

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func TestSegmenter_Select(t *testing.T) {
	t.Run("一様な画像は全体が選択される", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 40, 30))
		fill(img, img.Bounds(), color.RGBA{10, 200, 30, 255})

		m, err := New(DefaultTolerance).Select(img, 5, 5)
		require.NoError(t, err)
		assert.Equal(t, 40*30, m.Count())
		assert.Equal(t, 40, m.Width)
		assert.Equal(t, 30, m.Height)
	})

	t.Run("孤立したシードは1ピクセルだけ", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 5, 5))
		fill(img, img.Bounds(), color.RGBA{255, 255, 255, 255})
		img.SetRGBA(2, 2, color.RGBA{0, 0, 0, 255})

		m, err := New(DefaultTolerance).Select(img, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, 1, m.Count())
		assert.True(t, m.Selected(2, 2))
	})

	t.Run("許容値の境界", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 3, 1))
		img.SetRGBA(0, 0, color.RGBA{100, 100, 100, 255})
		img.SetRGBA(1, 0, color.RGBA{129, 100, 100, 255}) // 距離 29 は含む
		img.SetRGBA(2, 0, color.RGBA{130, 100, 100, 255}) // 距離 30 は含まない

		m, err := New(30).Select(img, 0, 0)
		require.NoError(t, err)
		assert.True(t, m.Selected(1, 0))
		assert.False(t, m.Selected(2, 0))
	})

	t.Run("色が近くても連結していなければ選択しない", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 9, 1))
		fill(img, img.Bounds(), color.RGBA{50, 50, 50, 255})
		img.SetRGBA(4, 0, color.RGBA{255, 255, 255, 255})

		m, err := New(DefaultTolerance).Select(img, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 4, m.Count())
		assert.False(t, m.Selected(8, 0))
	})

	t.Run("同じ入力なら結果は同じ", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 20, 20))
		fill(img, image.Rect(0, 0, 10, 20), color.RGBA{0, 0, 255, 255})
		fill(img, image.Rect(10, 0, 20, 20), color.RGBA{255, 255, 0, 255})

		s := New(DefaultTolerance)
		a, err := s.Select(img, 3, 3)
		require.NoError(t, err)
		b, err := s.Select(img, 3, 3)
		require.NoError(t, err)
		assert.Equal(t, a.Bits, b.Bits)
		assert.Equal(t, 200, a.Count())
	})

	t.Run("範囲外のシード", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		for _, p := range []image.Point{{-1, 0}, {0, -1}, {4, 0}, {0, 4}} {
			_, err := New(DefaultTolerance).Select(img, p.X, p.Y)
			assert.ErrorIs(t, err, ErrOutOfBounds)
		}
	})

	t.Run("許容値 0 以下は既定値", func(t *testing.T) {
		assert.Equal(t, DefaultTolerance, New(0).Tolerance())
		assert.Equal(t, DefaultTolerance, New(-5).Tolerance())
	})
}

func TestSegmenter_ReusesBuffers(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 800, 600))
	fill(img, img.Bounds(), color.RGBA{120, 80, 40, 255})
	s := New(DefaultTolerance)

	start := time.Now()
	m, err := s.Select(img, 400, 300)
	require.NoError(t, err)
	assert.Equal(t, 800*600, m.Count())
	assert.Less(t, time.Since(start), time.Second)

	// 2回目以降は返すマスク分しか確保しない
	allocs := testing.AllocsPerRun(3, func() {
		if _, err := s.Select(img, 10, 10); err != nil {
			t.Fatal(err)
		}
	})
	assert.LessOrEqual(t, allocs, 2.0)
}

func BenchmarkSegmenter_Select(b *testing.B) {
	img := image.NewRGBA(image.Rect(0, 0, 800, 600))
	fill(img, img.Bounds(), color.RGBA{120, 80, 40, 255})
	s := New(DefaultTolerance)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Select(img, 400, 300); err != nil {
			b.Fatal(err)
		}
	}
}
