package scene

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontOnce   sync.Once
	parsedFont *truetype.Font
	errFont    error
)

// newFace は指定サイズのフォントフェイスを返します。
// フェイスはグリフキャッシュを持つため呼び出しごとに作成します。
func newFace(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		parsedFont, errFont = truetype.Parse(goregular.TTF)
	})
	if errFont != nil {
		return nil, errFont
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

func measureText(s string, size float64) (float64, error) {
	face, err := newFace(size)
	if err != nil {
		return 0, err
	}
	defer face.Close()
	return float64(font.MeasureString(face, s)) / 64, nil
}
