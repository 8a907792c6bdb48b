package scene

import (
	"math"

	"golang.org/x/image/math/f64"
)

// FitMargin はキャンバスに画像を収める際の余白率です。
const FitMargin = 0.98

// Transform はオブジェクト中心を原点とする配置です。
// TranslateX/Y はキャンバス上の中心座標、Rotation は度数法です。
type Transform struct {
	TranslateX float64
	TranslateY float64
	ScaleX     float64
	ScaleY     float64
	Rotation   float64
}

// Identity は等倍・無回転で原点に置く Transform を返します。
func Identity() Transform {
	return Transform{ScaleX: 1, ScaleY: 1}
}

// FitToCanvas は縦横比を保ったまま画像をキャンバス中央に収める Transform を返します。
func FitToCanvas(imgW, imgH, canvasW, canvasH int) Transform {
	if imgW <= 0 || imgH <= 0 {
		return Identity()
	}
	scale := math.Min(
		float64(canvasW)*FitMargin/float64(imgW),
		float64(canvasH)*FitMargin/float64(imgH),
	)
	return Transform{
		TranslateX: float64(canvasW) / 2,
		TranslateY: float64(canvasH) / 2,
		ScaleX:     scale,
		ScaleY:     scale,
	}
}

// Aff3 は w×h のオブジェクト座標からキャンバス座標への行列を返します。
func (t Transform) Aff3(w, h int) f64.Aff3 {
	sin, cos := math.Sincos(t.Rotation * math.Pi / 180)
	a, b := t.ScaleX*cos, -t.ScaleY*sin
	d, e := t.ScaleX*sin, t.ScaleY*cos
	hw, hh := float64(w)/2, float64(h)/2
	return f64.Aff3{
		a, b, t.TranslateX - a*hw - b*hh,
		d, e, t.TranslateY - d*hw - e*hh,
	}
}

// Apply はオブジェクト座標 (x, y) をキャンバス座標に変換します。
func (t Transform) Apply(w, h int, x, y float64) (float64, float64) {
	m := t.Aff3(w, h)
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// Invert はキャンバス座標をオブジェクト座標に戻します。
// スケールが 0 の場合は NaN を返します。
func (t Transform) Invert(w, h int, cx, cy float64) (float64, float64) {
	if t.ScaleX == 0 || t.ScaleY == 0 {
		return math.NaN(), math.NaN()
	}
	sin, cos := math.Sincos(-t.Rotation * math.Pi / 180)
	dx, dy := cx-t.TranslateX, cy-t.TranslateY
	rx := dx*cos - dy*sin
	ry := dx*sin + dy*cos
	return rx/t.ScaleX + float64(w)/2, ry/t.ScaleY + float64(h)/2
}

// MeanScale は線幅などの換算に使う平均倍率です。
func (t Transform) MeanScale() float64 {
	return (math.Abs(t.ScaleX) + math.Abs(t.ScaleY)) / 2
}

// Bounds は w×h のオブジェクトがキャンバス上で占める外接矩形です。
func (t Transform) Bounds(w, h int) Rect {
	r := emptyRect()
	for _, p := range [][2]float64{{0, 0}, {float64(w), 0}, {0, float64(h)}, {float64(w), float64(h)}} {
		x, y := t.Apply(w, h, p[0], p[1])
		r = r.extend(x, y)
	}
	return r
}

// Rect はキャンバス座標の外接矩形です。
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

func emptyRect() Rect {
	return Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
}

func (r Rect) extend(x, y float64) Rect {
	return Rect{
		MinX: math.Min(r.MinX, x),
		MinY: math.Min(r.MinY, y),
		MaxX: math.Max(r.MaxX, x),
		MaxY: math.Max(r.MaxY, y),
	}
}

// Contains は点が矩形内 (境界を含む) にあるかを返します。
func (r Rect) Contains(x, y float64) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}
