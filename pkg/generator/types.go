package generator

import "time"

const (
	DefaultPrimaryModel  = "gemini-3-pro-image-preview"
	DefaultFallbackModel = "gemini-2.5-flash-image"
	DefaultAspectRatio   = "1:1"
	DefaultImageSize     = "2K"

	// DefaultMaxRetries は同一モデルへの再試行回数です (初回を含まない)。
	DefaultMaxRetries = 3
	DefaultBaseDelay  = 2 * time.Second

	ImageCompressionQuality = 75
)

// InpaintPromptTemplate はユーザーの指示を包む部分編集用のプロンプトです。
const InpaintPromptTemplate = `Task: Perform an inpainting edit on the provided image using the associated mask.
Edit Request: "%s"
The mask indicates where the changes should occur. Maintain stylistic continuity with the rest of the garment.
CRITICAL: Professional fashion studio quality. High resolution output. No real-world brand logos.`

// ImageOutput はレスポンス解析の内部結果です。
type ImageOutput struct {
	Data     []byte
	MimeType string
	UsedSeed int64
}
