package generator

import (
	"context"
	"fmt"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"

	"github.com/shouni/gemini-mask-editor/pkg/domain"
)

// GenaiBackend は google.golang.org/genai を直接使う Backend です。
// ImageSize を含む画像設定をそのまま送れます。
type GenaiBackend struct {
	models ContentGenerator
	parts  partBuilder
}

// NewGenaiBackend は GenaiBackend を作成します。通常 models には genai.Client.Models を渡します。
// compressQuality が 0 より大きいとベース画像を JPEG に圧縮して送信します。
func NewGenaiBackend(models ContentGenerator, compressQuality int) (*GenaiBackend, error) {
	if models == nil {
		return nil, fmt.Errorf("models (ContentGenerator) is required")
	}
	return &GenaiBackend{models: models, parts: partBuilder{compressQuality: compressQuality}}, nil
}

// Submit は1回分の生成呼び出しを行います。
func (b *GenaiBackend) Submit(ctx context.Context, req domain.EditRequest, model string, cfg domain.GenerateConfig) (*domain.ImageResponse, error) {
	parts, err := b.parts.buildEditParts(req)
	if err != nil {
		return nil, err
	}

	contents := []*genai.Content{{Role: string(genai.RoleUser), Parts: parts}}
	resp, err := b.models.GenerateContent(ctx, model, contents, toGenaiConfig(cfg))
	if err != nil {
		return nil, err // 分類のためラップしない
	}

	out, err := parseToResponse(resp, dereferenceSeed(cfg.Seed))
	if err != nil {
		return nil, err
	}
	return &domain.ImageResponse{
		Data:     out.Data,
		MimeType: out.MimeType,
		Model:    model,
		UsedSeed: out.UsedSeed,
	}, nil
}

func toGenaiConfig(cfg domain.GenerateConfig) *genai.GenerateContentConfig {
	gc := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
		Seed:               seedToPtrInt32(cfg.Seed),
	}
	if cfg.AspectRatio != "" || cfg.ImageSize != "" {
		gc.ImageConfig = &genai.ImageConfig{
			AspectRatio: cfg.AspectRatio,
			ImageSize:   cfg.ImageSize,
		}
	}
	if cfg.SystemPrompt != "" {
		gc.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: cfg.SystemPrompt}}}
	}
	return gc
}

// KitBackend は go-gemini-client の GenerativeModel を使う Backend です。
// gemini.GenerateOptions は画像サイズを表現できないため ImageSize は送られません。
type KitBackend struct {
	aiClient KitModel
	parts    partBuilder
}

// NewKitBackend は KitBackend を作成します。
func NewKitBackend(aiClient KitModel, compressQuality int) (*KitBackend, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient (KitModel) is required")
	}
	return &KitBackend{aiClient: aiClient, parts: partBuilder{compressQuality: compressQuality}}, nil
}

// Submit は1回分の生成呼び出しを行います。
func (b *KitBackend) Submit(ctx context.Context, req domain.EditRequest, model string, cfg domain.GenerateConfig) (*domain.ImageResponse, error) {
	parts, err := b.parts.buildEditParts(req)
	if err != nil {
		return nil, err
	}

	opts := gemini.GenerateOptions{
		AspectRatio:  cfg.AspectRatio,
		SystemPrompt: cfg.SystemPrompt,
		Seed:         cfg.Seed,
	}
	resp, err := b.aiClient.GenerateWithParts(ctx, model, parts, opts)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, ErrNoImageData
	}

	out, err := parseToResponse(resp.RawResponse, dereferenceSeed(cfg.Seed))
	if err != nil {
		return nil, err
	}
	return &domain.ImageResponse{
		Data:     out.Data,
		MimeType: out.MimeType,
		Model:    model,
		UsedSeed: out.UsedSeed,
	}, nil
}
