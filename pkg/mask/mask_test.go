package mask

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-mask-editor/pkg/scene"
)

func newScene(t *testing.T, w, h int) *scene.Scene {
	t.Helper()
	s, err := scene.New(800, 600, scene.NewBaseImage(image.NewNRGBA(image.Rect(0, 0, w, h))))
	require.NoError(t, err)
	return s
}

func count(img *image.Gray, v uint8) int {
	n := 0
	for _, p := range img.Pix {
		if p == v {
			n++
		}
	}
	return n
}

func TestCompose(t *testing.T) {
	t.Run("マスク領域がなければ全面白", func(t *testing.T) {
		s := newScene(t, 2000, 1000)
		out := Compose(s)
		assert.Equal(t, image.Rect(0, 0, 2000, 1000), out.Bounds())
		assert.Equal(t, 2000*1000, count(out, editable))
	})

	t.Run("自動選択のビットマップはベース画像の座標に写される", func(t *testing.T) {
		// 400x300 の画像は 800x600 に 1.96 倍で収まる
		s := newScene(t, 400, 300)
		sel := scene.NewSelectionMask(800, 600)
		for y := 0; y < 300; y++ {
			for x := 0; x < 400; x++ {
				sel.Set(x, y)
			}
		}
		require.NoError(t, s.Add(scene.NewWandRegion(sel)))

		out := Compose(s)
		assert.Equal(t, image.Rect(0, 0, 400, 300), out.Bounds())
		assert.Equal(t, uint8(editable), out.GrayAt(10, 20).Y)
		assert.Equal(t, uint8(protected), out.GrayAt(390, 290).Y)
		assert.Equal(t, 400*300, count(out, editable)+count(out, protected), "二値であること")
	})

	t.Run("オフセットが反映される", func(t *testing.T) {
		s := newScene(t, 800, 600)
		sel := scene.NewSelectionMask(800, 600)
		sel.Set(400, 300)
		region := scene.NewWandRegion(sel)
		require.NoError(t, s.Add(region))
		before := Compose(s)
		require.NoError(t, s.Translate(region.ID, 600, 0))
		after := Compose(s)
		assert.Positive(t, count(before, editable))
		assert.Zero(t, count(after, editable), "キャンバス外に移動した選択は何も選ばない")
	})

	t.Run("ブラシのストロークは半径分の幅で塗られる", func(t *testing.T) {
		s := newScene(t, 800, 600)
		base := s.Base()
		path := &scene.Path{Points: []scene.Point{{X: 200, Y: 300}, {X: 600, Y: 300}}, Radius: 30}
		require.NoError(t, s.Add(scene.NewBrushRegion(path)))

		out := Compose(s)
		assert.Equal(t, image.Rect(0, 0, 800, 600), out.Bounds())

		// キャンバス座標 (400, 300) に対応するベース画像のピクセル
		w, h := base.Size()
		x, y := base.Transform.Invert(w, h, 400, 300)
		assert.Equal(t, uint8(editable), out.GrayAt(int(x), int(y)).Y)
		x, y = base.Transform.Invert(w, h, 400, 200)
		assert.Equal(t, uint8(protected), out.GrayAt(int(x), int(y)).Y)
		assert.Equal(t, 800*600, count(out, editable)+count(out, protected))
	})

	t.Run("1点だけのストロークは円になる", func(t *testing.T) {
		s := newScene(t, 800, 600)
		path := &scene.Path{Points: []scene.Point{{X: 400, Y: 300}}, Radius: 30}
		require.NoError(t, s.Add(scene.NewBrushRegion(path)))

		out := Compose(s)
		assert.Positive(t, count(out, editable))
		assert.Equal(t, uint8(protected), out.GrayAt(0, 0).Y)
	})
}

func TestComposePNG(t *testing.T) {
	s := newScene(t, 30, 20)
	data, err := ComposePNG(s)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 30, 20), img.Bounds())
	assert.Equal(t, color.Gray{Y: 255}, color.GrayModel.Convert(img.At(5, 5)))
}
