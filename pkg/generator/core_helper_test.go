package generator

import (
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/shouni/gemini-mask-editor/pkg/domain"
	"github.com/shouni/gemini-mask-editor/pkg/imgutil"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	data, err := imgutil.EncodePNG(image.NewNRGBA(image.Rect(0, 0, w, h)))
	require.NoError(t, err)
	return data
}

func TestPartBuilder_BuildEditParts(t *testing.T) {
	req := domain.EditRequest{
		BaseImage:   pngBytes(t, 8, 8),
		Mask:        pngBytes(t, 8, 8),
		Instruction: "add a pocket",
	}

	t.Run("プロンプト、ベース画像、マスクの順", func(t *testing.T) {
		parts, err := partBuilder{}.buildEditParts(req)
		require.NoError(t, err)
		require.Len(t, parts, 3)
		assert.True(t, strings.Contains(parts[0].Text, `Edit Request: "add a pocket"`))
		assert.Equal(t, "image/png", parts[1].InlineData.MIMEType)
		assert.Equal(t, req.BaseImage, parts[1].InlineData.Data)
		assert.Equal(t, "image/png", parts[2].InlineData.MIMEType)
	})

	t.Run("圧縮が有効ならベース画像だけ JPEG になる", func(t *testing.T) {
		parts, err := partBuilder{compressQuality: ImageCompressionQuality}.buildEditParts(req)
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", parts[1].InlineData.MIMEType)
		assert.Equal(t, "image/png", parts[2].InlineData.MIMEType)
	})

	t.Run("画像でないデータはエラー", func(t *testing.T) {
		bad := req
		bad.Mask = []byte("not an image")
		_, err := partBuilder{}.buildEditParts(bad)
		assert.ErrorIs(t, err, ErrInvalidImage)
	})
}

func TestParseToResponse(t *testing.T) {
	seed := int64(999)

	t.Run("正常系", func(t *testing.T) {
		out, err := parseToResponse(imageResponse([]byte("png-data")), seed)
		require.NoError(t, err)
		assert.Equal(t, "image/png", out.MimeType)
		assert.Equal(t, seed, out.UsedSeed)
		assert.Equal(t, []byte("png-data"), out.Data)
	})

	t.Run("異常系: 画像データなし", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []*genai.Part{{Text: "just text"}}}},
			},
		}
		_, err := parseToResponse(resp, seed)
		assert.ErrorIs(t, err, ErrNoImageData)
	})

	t.Run("異常系: 安全性フィルタで中断", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
		}
		_, err := parseToResponse(resp, seed)
		assert.ErrorIs(t, err, ErrNoImageData)
		assert.Contains(t, err.Error(), "SAFETY")
	})

	t.Run("異常系: nil", func(t *testing.T) {
		_, err := parseToResponse(nil, seed)
		assert.ErrorIs(t, err, ErrNoImageData)
	})
}
