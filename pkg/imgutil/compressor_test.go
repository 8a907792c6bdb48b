package imgutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createDummyImageData は 10x10 の赤い正方形をエンコードして返します。
func createDummyImageData(t *testing.T, format string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}

	buf := new(bytes.Buffer)
	var err error
	switch format {
	case "png":
		err = png.Encode(buf, img)
	case "jpeg":
		err = jpeg.Encode(buf, img, nil)
	default:
		t.Fatalf("unsupported format: %s", format)
	}
	require.NoError(t, err, "failed to encode dummy image")
	return buf.Bytes()
}

func TestCompressToJPEG(t *testing.T) {
	t.Run("PNGのベース画像をJPEGに圧縮できる", func(t *testing.T) {
		got, err := CompressToJPEG(createDummyImageData(t, "png"), 75)
		require.NoError(t, err)
		require.NotEmpty(t, got)

		_, format, err := image.Decode(bytes.NewReader(got))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
	})

	t.Run("画像でないデータはエラー", func(t *testing.T) {
		_, err := CompressToJPEG([]byte("this is not an image"), 75)
		assert.Error(t, err)
	})

	t.Run("品質が低いほどサイズが小さい", func(t *testing.T) {
		input := createDummyImageData(t, "png")

		high, err := CompressToJPEG(input, 100)
		require.NoError(t, err)
		low, err := CompressToJPEG(input, 10)
		require.NoError(t, err)

		assert.Less(t, len(low), len(high))
	})
}
