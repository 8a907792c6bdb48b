package scene

import (
	"image"
	"image/color"
)

const (
	maskOn  = 255
	maskOff = 0
)

// SelectionMask はキャンバスと同じ大きさの 1 byte/pixel の選択ビットマップです。
// 値は 0 か 255 のみです。
type SelectionMask struct {
	Width  int
	Height int
	Bits   []byte
}

// NewSelectionMask は何も選択されていないマスクを作成します。
func NewSelectionMask(width, height int) *SelectionMask {
	return &SelectionMask{
		Width:  width,
		Height: height,
		Bits:   make([]byte, width*height),
	}
}

// In は (x, y) がマスクの範囲内かを返します。
func (m *SelectionMask) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// Selected は (x, y) が選択されているかを返します。範囲外は false です。
func (m *SelectionMask) Selected(x, y int) bool {
	return m.In(x, y) && m.Bits[y*m.Width+x] == maskOn
}

// Set は (x, y) を選択状態にします。
func (m *SelectionMask) Set(x, y int) {
	if m.In(x, y) {
		m.Bits[y*m.Width+x] = maskOn
	}
}

// Count は選択されたピクセル数を返します。
func (m *SelectionMask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b == maskOn {
			n++
		}
	}
	return n
}

// Bounds は選択範囲の外接矩形です。何も選択されていなければ空の矩形を返します。
func (m *SelectionMask) Bounds() image.Rectangle {
	var r image.Rectangle
	for y := 0; y < m.Height; y++ {
		row := m.Bits[y*m.Width : (y+1)*m.Width]
		for x, b := range row {
			if b == maskOn {
				r = r.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return r
}

// Preview は選択ピクセルだけを c で塗った半透明の画像を返します。
func (m *SelectionMask) Preview(c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for i, b := range m.Bits {
		if b != maskOn {
			continue
		}
		p := img.Pix[i*4 : i*4+4]
		p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
	}
	return img
}

// Point はキャンバス座標の点です。
type Point struct {
	X, Y float64
}

// Path はブラシで描かれたストロークです。Radius はブラシの半径です。
type Path struct {
	Points []Point
	Radius float64
}

// Bounds はブラシ幅を含めた外接矩形です。
func (p *Path) Bounds() Rect {
	r := emptyRect()
	for _, pt := range p.Points {
		r = r.extend(pt.X-p.Radius, pt.Y-p.Radius)
		r = r.extend(pt.X+p.Radius, pt.Y+p.Radius)
	}
	return r
}
