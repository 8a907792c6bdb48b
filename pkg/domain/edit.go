package domain

import "time"

// EditRequest はマスク付きの部分編集要求です。
// リトライやフォールバックの間も内容は一切変更されません。
type EditRequest struct {
	BaseImage   []byte // 編集対象の画像 (PNG/JPEG)
	Mask        []byte // 白 = 編集可能, 黒 = 保護 (PNG)
	Instruction string
}

// GenerateConfig はモデル呼び出し時の生成設定です。
type GenerateConfig struct {
	AspectRatio  string
	ImageSize    string // "1K", "2K", "4K"。対応していないモデルがある
	SystemPrompt string
	Seed         *int64 // nil でランダム
}

// WithoutImageSize は ImageSize を取り除いた設定を返します。
// フォールバックモデルは画像サイズ指定を受け付けないためです。
func (c GenerateConfig) WithoutImageSize() GenerateConfig {
	c.ImageSize = ""
	return c
}

// ImageResponse は生成された画像データとそのメタデータです。
type ImageResponse struct {
	Data     []byte
	MimeType string
	Model    string // 実際に応答したモデル
	UsedSeed int64
}

// GenerationAttempt は1回のモデル呼び出し試行の状態です。
// リトライのたびに更新され、呼び出しが確定した時点で破棄されます。
type GenerationAttempt struct {
	Model      string
	Config     GenerateConfig
	Attempt    int // 1 始まり
	MaxRetries int
	Backoff    time.Duration // 直前の待機時間
}
