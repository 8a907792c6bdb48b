// Package mask はシーンのマスク領域をベース画像の解像度の二値マスクに変換します。
//
// 白 (255) が編集可能な領域、黒 (0) が保護される領域です。
package mask

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/shouni/gemini-mask-editor/pkg/imgutil"
	"github.com/shouni/gemini-mask-editor/pkg/scene"
)

const (
	editable  = 255
	protected = 0
	threshold = 128
)

// Compose は s のアクティブなマスク領域を二値マスクにします。
// マスク領域がなければ画像全体を編集可能とする全面白のマスクを返します。
func Compose(s *scene.Scene) *image.Gray {
	base := s.Base()
	w, h := base.Size()
	out := image.NewGray(image.Rect(0, 0, w, h))

	m := s.ActiveMask()
	if m == nil {
		fillGray(out, editable)
		return out
	}

	switch {
	case m.Bitmap != nil:
		sampleBitmap(out, base.Transform, m)
	case m.Path != nil:
		rasterizePath(out, base.Transform, m)
	}
	return out
}

// ComposePNG は Compose の結果を PNG にエンコードします。
func ComposePNG(s *scene.Scene) ([]byte, error) {
	return imgutil.EncodePNG(Compose(s))
}

func fillGray(img *image.Gray, v uint8) {
	for i := range img.Pix {
		img.Pix[i] = v
	}
}

// sampleBitmap はベース画像の各ピクセル中心をキャンバス座標に写し、選択ビットマップを参照します。
func sampleBitmap(out *image.Gray, t scene.Transform, m *scene.MaskRegion) {
	w, h := out.Rect.Dx(), out.Rect.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cx, cy := t.Apply(w, h, float64(x)+0.5, float64(y)+0.5)
			bx := int(math.Floor(cx - m.OffsetX))
			by := int(math.Floor(cy - m.OffsetY))
			if m.Bitmap.Selected(bx, by) {
				out.Pix[y*out.Stride+x] = editable
			}
		}
	}
}

// rasterizePath はキャンバス座標のストロークをベース画像の逆変換の下で描画し、二値化します。
func rasterizePath(out *image.Gray, t scene.Transform, m *scene.MaskRegion) {
	scale := t.MeanScale()
	if scale == 0 {
		return
	}
	w, h := out.Rect.Dx(), out.Rect.Dy()
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	dc := gg.NewContextForRGBA(canvas)
	dc.SetColor(color.Black)
	dc.Clear()

	dc.Translate(float64(w)/2, float64(h)/2)
	dc.Scale(1/t.ScaleX, 1/t.ScaleY)
	dc.Rotate(gg.Radians(-t.Rotation))
	dc.Translate(m.OffsetX-t.TranslateX, m.OffsetY-t.TranslateY)

	dc.SetColor(color.White)
	m.Path.FillArea(dc)
	m.Path.StrokeSwath(dc, 1/scale)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(protected)
			if canvas.Pix[canvas.PixOffset(x, y)] >= threshold {
				v = editable
			}
			out.Pix[y*out.Stride+x] = v
		}
	}
}
