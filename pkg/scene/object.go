package scene

import (
	"image"
	"image/color"

	"github.com/google/uuid"

	"github.com/shouni/gemini-mask-editor/pkg/filter"
	"github.com/shouni/gemini-mask-editor/pkg/imgutil"
)

// Kind はオブジェクトの種別です。
type Kind int

const (
	KindBaseImage Kind = iota
	KindMaskRegion
	KindText
	KindLogo
)

func (k Kind) String() string {
	switch k {
	case KindBaseImage:
		return "base"
	case KindMaskRegion:
		return "mask"
	case KindText:
		return "text"
	case KindLogo:
		return "logo"
	default:
		return "unknown"
	}
}

// Object はシーン上のオブジェクトです。
// 実装は BaseImage, MaskRegion, TextAnnotation, LogoOverlay のみで、
// 利用側は型スイッチで網羅的に分岐します。
type Object interface {
	Head() *Header
	Kind() Kind
	sealed()
}

// Header は全オブジェクト共通の属性です。
type Header struct {
	ID         string
	Selectable bool
}

// Head はヘッダを返します。
func (h *Header) Head() *Header { return h }

func newHeader(selectable bool) Header {
	return Header{ID: uuid.NewString(), Selectable: selectable}
}

// ImageLayer はピクセルを持つオブジェクトの共通部分です。
// Source は調整前の原画、Pixels は Filter を適用した表示用バッファです。
type ImageLayer struct {
	Source    *image.NRGBA
	Pixels    *image.NRGBA
	Transform Transform
	Filter    filter.State
}

func newImageLayer(img *image.NRGBA) ImageLayer {
	return ImageLayer{
		Source:    img,
		Pixels:    imgutil.CloneNRGBA(img),
		Transform: Identity(),
	}
}

// Size は原画のピクセル寸法です。
func (l *ImageLayer) Size() (int, int) {
	return l.Source.Bounds().Dx(), l.Source.Bounds().Dy()
}

// SetFilter は調整値を更新し、原画から表示用バッファを再計算します。
func (l *ImageLayer) SetFilter(st filter.State) {
	l.Filter = st.Clamped()
	l.Pixels = filter.Apply(l.Source, l.Filter)
}

// BaseImage は編集対象の衣服画像です。シーンの最背面に常に1つだけ存在します。
type BaseImage struct {
	Header
	ImageLayer
}

// NewBaseImage は選択不可のベース画像を作成します。
func NewBaseImage(img *image.NRGBA) *BaseImage {
	return &BaseImage{Header: newHeader(false), ImageLayer: newImageLayer(img)}
}

func (*BaseImage) Kind() Kind { return KindBaseImage }
func (*BaseImage) sealed()    {}

// LogoOverlay はユーザーが配置したロゴ画像です。
type LogoOverlay struct {
	Header
	ImageLayer
}

// NewLogoOverlay は選択可能なロゴを作成します。
func NewLogoOverlay(img *image.NRGBA) *LogoOverlay {
	return &LogoOverlay{Header: newHeader(true), ImageLayer: newImageLayer(img)}
}

func (*LogoOverlay) Kind() Kind { return KindLogo }
func (*LogoOverlay) sealed()    {}

// TextAnnotation はキャンバス上のテキストです。
type TextAnnotation struct {
	Header
	Content   string
	Size      float64 // ポイント
	Color     color.NRGBA
	Transform Transform
}

const (
	DefaultTextContent = "Your Text"
	DefaultTextSize    = 40
)

// NewTextAnnotation は白いテキストを作成します。
func NewTextAnnotation(content string, size float64) *TextAnnotation {
	if size <= 0 {
		size = DefaultTextSize
	}
	return &TextAnnotation{
		Header:    newHeader(true),
		Content:   content,
		Size:      size,
		Color:     color.NRGBA{255, 255, 255, 255},
		Transform: Identity(),
	}
}

func (*TextAnnotation) Kind() Kind { return KindText }
func (*TextAnnotation) sealed()    {}

// Extent は変換前のテキストの幅と高さです。
func (t *TextAnnotation) Extent() (float64, float64) {
	w, err := measureText(t.Content, t.Size)
	if err != nil {
		return 0, t.Size
	}
	return w, t.Size
}

// MaskRegion は編集範囲の選択です。Bitmap (自動選択) か Path (ブラシ) のどちらかを持ちます。
// 座標はキャンバス空間で、ドラッグ移動は Offset に蓄積されます。
type MaskRegion struct {
	Header
	Bitmap  *SelectionMask
	Path    *Path
	Color   color.NRGBA
	Opacity float64
	OffsetX float64
	OffsetY float64
}

var (
	// WandPreviewColor は自動選択のプレビュー色です。
	WandPreviewColor = color.NRGBA{255, 0, 0, 100}
	// BrushPreviewColor はブラシ選択の線の色です。
	BrushPreviewColor = color.NRGBA{255, 0, 0, 255}
)

const (
	brushFillOpacity   = 0.3
	brushStrokeOpacity = 0.5
	brushOutlineWidth  = 2
)

// NewWandRegion は選択ビットマップからマスク領域を作成します。
func NewWandRegion(m *SelectionMask) *MaskRegion {
	return &MaskRegion{
		Header:  newHeader(true),
		Bitmap:  m,
		Color:   WandPreviewColor,
		Opacity: float64(WandPreviewColor.A) / 255,
	}
}

// NewBrushRegion はブラシのストロークからマスク領域を作成します。
func NewBrushRegion(p *Path) *MaskRegion {
	return &MaskRegion{
		Header:  newHeader(true),
		Path:    p,
		Color:   BrushPreviewColor,
		Opacity: brushFillOpacity,
	}
}

func (*MaskRegion) Kind() Kind { return KindMaskRegion }
func (*MaskRegion) sealed()    {}

// Bounds はオフセットを含めたキャンバス上の外接矩形です。
func (m *MaskRegion) Bounds() Rect {
	var r Rect
	switch {
	case m.Bitmap != nil:
		b := m.Bitmap.Bounds()
		if b.Empty() {
			return emptyRect()
		}
		r = Rect{MinX: float64(b.Min.X), MinY: float64(b.Min.Y), MaxX: float64(b.Max.X), MaxY: float64(b.Max.Y)}
	case m.Path != nil:
		r = m.Path.Bounds()
	default:
		return emptyRect()
	}
	return Rect{MinX: r.MinX + m.OffsetX, MinY: r.MinY + m.OffsetY, MaxX: r.MaxX + m.OffsetX, MaxY: r.MaxY + m.OffsetY}
}
