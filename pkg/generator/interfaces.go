package generator

import (
	"context"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"

	"github.com/shouni/gemini-mask-editor/pkg/domain"
)

// ImageEditor はエディタが利用する統合窓口です。
type ImageEditor interface {
	// SubmitInstructedEdit はマスク付きの編集要求を送信し、編集後の画像を返します。
	SubmitInstructedEdit(ctx context.Context, req domain.EditRequest) (*domain.ImageResponse, error)
}

// Backend は指定モデルへの1回分の呼び出しを行います。リトライは行いません。
type Backend interface {
	Submit(ctx context.Context, req domain.EditRequest, model string, cfg domain.GenerateConfig) (*domain.ImageResponse, error)
}

// ContentGenerator は genai.Models のうち GenaiBackend が利用するメソッドです。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// KitModel は gemini.GenerativeModel のうち KitBackend が利用するメソッドです。
type KitModel interface {
	GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}
