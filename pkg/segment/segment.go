// Package segment はクリック位置から色の近い連続領域を選択します。
package segment

import (
	"errors"
	"image"

	"github.com/shouni/gemini-mask-editor/pkg/scene"
)

// DefaultTolerance は RGB ユークリッド距離の既定の許容値です。
const DefaultTolerance = 30

// ErrOutOfBounds はシード座標が画像の外にあることを示します。
var ErrOutOfBounds = errors.New("segment: seed point is out of bounds")

// Segmenter は 4 近傍の塗りつぶしで領域を選択します。
// 作業用バッファを使い回すため、ゴルーチン間で共有できません。
type Segmenter struct {
	tolerance int
	visited   []bool
	stack     []image.Point
}

// New は許容値 tolerance の Segmenter を作成します。0 以下なら DefaultTolerance を使います。
func New(tolerance int) *Segmenter {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Segmenter{tolerance: tolerance}
}

// Tolerance は現在の許容値です。
func (s *Segmenter) Tolerance() int { return s.tolerance }

// Select は (x, y) の色から許容値以内で連結したピクセルを選択したマスクを返します。
// 戻り値のマスクは呼び出し元が所有します。
func (s *Segmenter) Select(img *image.RGBA, x, y int) (*scene.SelectionMask, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if x < 0 || y < 0 || x >= w || y >= h {
		return nil, ErrOutOfBounds
	}

	s.reset(w * h)
	mask := scene.NewSelectionMask(w, h)

	seed := img.RGBAAt(b.Min.X+x, b.Min.Y+y)
	limit := s.tolerance * s.tolerance

	s.stack = append(s.stack, image.Pt(x, y))
	s.visited[y*w+x] = true

	for len(s.stack) > 0 {
		p := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]

		i := img.PixOffset(b.Min.X+p.X, b.Min.Y+p.Y)
		if dist2(img.Pix[i:i+3], seed.R, seed.G, seed.B) >= limit {
			continue
		}
		mask.Set(p.X, p.Y)

		for _, n := range [4]image.Point{image.Pt(p.X+1, p.Y), image.Pt(p.X-1, p.Y), image.Pt(p.X, p.Y+1), image.Pt(p.X, p.Y-1)} {
			if n.X < 0 || n.Y < 0 || n.X >= w || n.Y >= h {
				continue
			}
			if s.visited[n.Y*w+n.X] {
				continue
			}
			s.visited[n.Y*w+n.X] = true
			s.stack = append(s.stack, n)
		}
	}
	return mask, nil
}

func (s *Segmenter) reset(n int) {
	if cap(s.visited) < n {
		s.visited = make([]bool, n)
	} else {
		s.visited = s.visited[:n]
		clear(s.visited)
	}
	s.stack = s.stack[:0]
}

func dist2(px []uint8, r, g, b uint8) int {
	dr := int(px[0]) - int(r)
	dg := int(px[1]) - int(g)
	db := int(px[2]) - int(b)
	return dr*dr + dg*dg + db*db
}
