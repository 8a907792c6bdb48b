package generator

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/shouni/gemini-mask-editor/pkg/domain"
	"github.com/shouni/gemini-mask-editor/pkg/imgutil"
)

var (
	// ErrInvalidImage は送信しようとしたデータが画像として認識できないことを示します。
	ErrInvalidImage = errors.New("generator: payload is not an image")
	// ErrNoImageData はレスポンスに画像が含まれていないことを示します。
	ErrNoImageData = errors.New("generator: no image data in response")
)

// partBuilder は編集要求を Gemini のパーツ列に変換します。
type partBuilder struct {
	// compressQuality が 0 より大きいとき、ベース画像を JPEG に圧縮して送ります。
	compressQuality int
}

// buildEditParts はプロンプト、ベース画像、マスクの順にパーツを組み立てます。
// req 自体は変更しません。
func (b partBuilder) buildEditParts(req domain.EditRequest) ([]*genai.Part, error) {
	baseData := req.BaseImage
	if b.compressQuality > 0 {
		if compressed, err := imgutil.CompressToJPEG(baseData, b.compressQuality); err == nil {
			baseData = compressed
		}
	}

	base := toPart(baseData)
	if base == nil {
		return nil, fmt.Errorf("ベース画像: %w", ErrInvalidImage)
	}
	mask := toPart(req.Mask)
	if mask == nil {
		return nil, fmt.Errorf("マスク画像: %w", ErrInvalidImage)
	}

	return []*genai.Part{
		{Text: buildPrompt(req.Instruction)},
		base,
		mask,
	}, nil
}

func buildPrompt(instruction string) string {
	return fmt.Sprintf(InpaintPromptTemplate, instruction)
}

func toPart(data []byte) *genai.Part {
	if len(data) == 0 {
		return nil
	}
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil
	}
	return &genai.Part{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}
}

// parseToResponse は最初の候補から画像パーツを取り出します。
func parseToResponse(resp *genai.GenerateContentResponse, seed int64) (*ImageOutput, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("invalid response: %w", ErrNoImageData)
	}
	candidate := resp.Candidates[0]
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &ImageOutput{Data: part.InlineData.Data, MimeType: part.InlineData.MIMEType, UsedSeed: seed}, nil
			}
		}
	}

	// 安全フィルター等によるブロックの確認
	switch candidate.FinishReason {
	case "", genai.FinishReasonUnspecified, genai.FinishReasonStop:
		return nil, ErrNoImageData
	default:
		return nil, fmt.Errorf("画像生成が異常終了しました (FinishReason: %s): %w", candidate.FinishReason, ErrNoImageData)
	}
}
