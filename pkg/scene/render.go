package scene

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
)

// Background はキャンバスの背景色です。
var Background = color.NRGBA{0x1a, 0x1a, 0x1a, 0xff}

// RenderOptions は合成時の設定です。
type RenderOptions struct {
	// SkipMasks はマスク領域のプレビューを描画しません。自動選択の入力に使います。
	SkipMasks bool
}

// Render はシーン全体を z 順に合成したキャンバス画像を返します。
func (s *Scene) Render(opts RenderOptions) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(Background), image.Point{}, xdraw.Src)

	for _, o := range s.objects {
		switch v := o.(type) {
		case *BaseImage:
			drawLayer(dst, &v.ImageLayer)
		case *LogoOverlay:
			drawLayer(dst, &v.ImageLayer)
		case *TextAnnotation:
			drawText(dst, v)
		case *MaskRegion:
			if !opts.SkipMasks {
				drawMask(dst, v)
			}
		default:
			slog.Warn("未対応のオブジェクトは描画しません", "type", fmt.Sprintf("%T", o))
		}
	}
	return dst
}

func drawLayer(dst *image.RGBA, l *ImageLayer) {
	w, h := l.Size()
	xdraw.BiLinear.Transform(dst, l.Transform.Aff3(w, h), l.Pixels, l.Pixels.Bounds(), xdraw.Over, nil)
}

func drawText(dst *image.RGBA, t *TextAnnotation) {
	face, err := newFace(t.Size)
	if err != nil {
		slog.Warn("フォントの読み込みに失敗したためテキストを描画しません", "id", t.ID, "error", err)
		return
	}
	defer face.Close()

	dc := gg.NewContextForRGBA(dst)
	dc.SetFontFace(face)
	dc.SetColor(t.Color)
	dc.Translate(t.Transform.TranslateX, t.Transform.TranslateY)
	dc.Rotate(gg.Radians(t.Transform.Rotation))
	dc.Scale(t.Transform.ScaleX, t.Transform.ScaleY)
	dc.DrawStringAnchored(t.Content, 0, 0, 0.5, 0.5)
}

func drawMask(dst *image.RGBA, m *MaskRegion) {
	switch {
	case m.Bitmap != nil:
		preview := m.Bitmap.Preview(m.Color)
		off := image.Pt(int(math.Round(m.OffsetX)), int(math.Round(m.OffsetY)))
		xdraw.Draw(dst, preview.Bounds().Add(off), preview, image.Point{}, xdraw.Over)
	case m.Path != nil:
		dc := gg.NewContextForRGBA(dst)
		dc.Translate(m.OffsetX, m.OffsetY)
		r, g, b := float64(m.Color.R)/255, float64(m.Color.G)/255, float64(m.Color.B)/255

		dc.SetRGBA(r, g, b, brushStrokeOpacity)
		m.Path.StrokeSwath(dc, 1)
		dc.SetRGBA(r, g, b, m.Opacity)
		m.Path.FillArea(dc)

		if len(m.Path.Points) > 1 {
			dc.SetRGBA(r, g, b, 1)
			dc.SetLineWidth(brushOutlineWidth)
			m.Path.TraceLine(dc)
			dc.Stroke()
		}
	}
}

// TraceLine はストロークの中心線を dc の現在のパスに追加します。
func (p *Path) TraceLine(dc *gg.Context) {
	dc.NewSubPath()
	for i, pt := range p.Points {
		if i == 0 {
			dc.MoveTo(pt.X, pt.Y)
			continue
		}
		dc.LineTo(pt.X, pt.Y)
	}
}

// StrokeSwath はブラシ幅の帯を現在の色で塗ります。
// gg の線幅はデバイス空間なので、scale にユーザー空間からの倍率を渡します。
func (p *Path) StrokeSwath(dc *gg.Context, scale float64) {
	switch len(p.Points) {
	case 0:
		return
	case 1:
		dc.DrawCircle(p.Points[0].X, p.Points[0].Y, p.Radius)
		dc.Fill()
		return
	}
	dc.SetLineWidth(2 * p.Radius * scale)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	p.TraceLine(dc)
	dc.Stroke()
}

// FillArea はストロークを閉じた多角形の内側を現在の色で塗ります。
func (p *Path) FillArea(dc *gg.Context) {
	if len(p.Points) < 3 {
		return
	}
	p.TraceLine(dc)
	dc.ClosePath()
	dc.Fill()
}
