// Package filter は画像オブジェクトに非破壊の色調整を適用します。
//
// 調整は常に元のピクセルから [色相, 彩度, 明度] の固定順で再計算されます。
// 前回の結果に重ねて適用することはありません。
package filter

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	HueLimit        = 180.0
	SaturationLimit = 100.0
	BrightnessLimit = 100.0
)

// State は画像オブジェクトごとの調整値です。
type State struct {
	Hue        float64 // 度 [-180, 180]
	Saturation float64 // [-100, 100]
	Brightness float64 // [-100, 100]
}

// Patch は State の部分更新です。nil のフィールドは変更しません。
type Patch struct {
	Hue        *float64
	Saturation *float64
	Brightness *float64
}

// IsZero はすべての調整値が 0 かどうかを返します。
func (s State) IsZero() bool {
	return s.Hue == 0 && s.Saturation == 0 && s.Brightness == 0
}

// Clamped は各値を許容範囲に収めた State を返します。NaN は 0 として扱います。
func (s State) Clamped() State {
	return State{
		Hue:        clamp(s.Hue, HueLimit),
		Saturation: clamp(s.Saturation, SaturationLimit),
		Brightness: clamp(s.Brightness, BrightnessLimit),
	}
}

// With は p を適用した新しい State を返します。
func (s State) With(p Patch) State {
	if p.Hue != nil {
		s.Hue = *p.Hue
	}
	if p.Saturation != nil {
		s.Saturation = *p.Saturation
	}
	if p.Brightness != nil {
		s.Brightness = *p.Brightness
	}
	return s.Clamped()
}

func clamp(v, limit float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-limit, math.Min(limit, v))
}

// stage はストレートアルファの RGB (0..1) を1画素ぶん変換します。
// パラメータが 0 のステージは何もしません。
type stage func(c *[3]float64, st State)

var chain = []stage{hueRotate, saturate, brighten}

// Apply は src に調整を適用した新しいバッファを返します。src は変更しません。
// st がゼロ値の場合は src と同一ピクセルの複製を返します。
func Apply(src *image.NRGBA, st State) *image.NRGBA {
	st = st.Clamped()
	out := &image.NRGBA{
		Pix:    make([]uint8, len(src.Pix)),
		Stride: src.Stride,
		Rect:   src.Rect,
	}
	copy(out.Pix, src.Pix)
	if st.IsZero() {
		return out
	}

	b := src.Rect
	for y := 0; y < b.Dy(); y++ {
		row := out.Pix[y*out.Stride : y*out.Stride+b.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			if row[i+3] == 0 {
				continue
			}
			c := [3]float64{float64(row[i]) / 255, float64(row[i+1]) / 255, float64(row[i+2]) / 255}
			for _, s := range chain {
				s(&c, st)
			}
			row[i] = to8(c[0])
			row[i+1] = to8(c[1])
			row[i+2] = to8(c[2])
		}
	}
	return out
}

func hueRotate(c *[3]float64, st State) {
	if st.Hue == 0 {
		return
	}
	h, s, v := colorful.Color{R: c[0], G: c[1], B: c[2]}.Hsv()
	h = math.Mod(h+st.Hue+360, 360)
	rotated := colorful.Hsv(h, s, v).Clamped()
	c[0], c[1], c[2] = rotated.R, rotated.G, rotated.B
}

// saturate は輝度を軸に色差を伸縮します。-100 で完全なグレースケールです。
func saturate(c *[3]float64, st State) {
	if st.Saturation == 0 {
		return
	}
	gray := 0.299*c[0] + 0.587*c[1] + 0.114*c[2]
	f := 1 + st.Saturation/SaturationLimit
	for i := range c {
		c[i] = gray + (c[i]-gray)*f
	}
}

func brighten(c *[3]float64, st State) {
	if st.Brightness == 0 {
		return
	}
	d := st.Brightness / BrightnessLimit
	for i := range c {
		c[i] += d
	}
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
