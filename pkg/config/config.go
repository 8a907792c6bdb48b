// Package config はエディタと生成クライアントの設定を YAML から読み込みます。
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shouni/gemini-mask-editor/pkg/brush"
	"github.com/shouni/gemini-mask-editor/pkg/domain"
	"github.com/shouni/gemini-mask-editor/pkg/editor"
	"github.com/shouni/gemini-mask-editor/pkg/generator"
	"github.com/shouni/gemini-mask-editor/pkg/segment"
)

const DefaultCacheTTL = 30 * time.Minute

// Config は設定ファイルの内容です。省略された項目は Default の値になります。
type Config struct {
	Canvas     CanvasConfig     `yaml:"canvas"`
	Tools      ToolsConfig      `yaml:"tools"`
	Generation GenerationConfig `yaml:"generation"`
	Source     SourceConfig     `yaml:"source"`
}

type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type ToolsConfig struct {
	Tolerance   int     `yaml:"tolerance"`
	BrushRadius float64 `yaml:"brush_radius"`
}

type GenerationConfig struct {
	PrimaryModel  string        `yaml:"primary_model"`
	FallbackModel string        `yaml:"fallback_model"`
	AspectRatio   string        `yaml:"aspect_ratio"`
	ImageSize     string        `yaml:"image_size"`
	SystemPrompt  string        `yaml:"system_prompt"`
	Seed          *int64        `yaml:"seed"`
	MaxRetries    int           `yaml:"max_retries"`
	BaseDelay     time.Duration `yaml:"base_delay"`

	// Compress が true のとき、ベース画像を JPEG に圧縮して送信します。
	Compress        bool `yaml:"compress"`
	CompressQuality int  `yaml:"compress_quality"`
}

type SourceConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// Default は既定の設定を返します。
func Default() Config {
	return Config{
		Canvas: CanvasConfig{Width: editor.DefaultCanvasWidth, Height: editor.DefaultCanvasHeight},
		Tools: ToolsConfig{
			Tolerance:   segment.DefaultTolerance,
			BrushRadius: brush.DefaultRadius,
		},
		Generation: GenerationConfig{
			PrimaryModel:    generator.DefaultPrimaryModel,
			FallbackModel:   generator.DefaultFallbackModel,
			AspectRatio:     generator.DefaultAspectRatio,
			ImageSize:       generator.DefaultImageSize,
			MaxRetries:      generator.DefaultMaxRetries,
			BaseDelay:       generator.DefaultBaseDelay,
			CompressQuality: generator.ImageCompressionQuality,
		},
		Source: SourceConfig{CacheTTL: DefaultCacheTTL},
	}
}

// Load は r の YAML を Default の上に重ねて読み込みます。
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("設定の解析に失敗しました: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile は path の設定ファイルを読み込みます。
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("設定ファイルを開けませんでした: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Validate は値の範囲を検証します。
func (c Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size must be positive: %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Generation.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative: %d", c.Generation.MaxRetries)
	}
	// genai のシードは int32 です。
	if s := c.Generation.Seed; s != nil && (*s < math.MinInt32 || *s > math.MaxInt32) {
		return fmt.Errorf("seed must fit in int32: %d", *s)
	}
	if c.Generation.CompressQuality < 1 || c.Generation.CompressQuality > 100 {
		return fmt.Errorf("compress_quality must be within 1..100: %d", c.Generation.CompressQuality)
	}
	return nil
}

// GenerateConfig は生成クライアントに渡す設定を返します。
func (c Config) GenerateConfig() domain.GenerateConfig {
	return domain.GenerateConfig{
		AspectRatio:  c.Generation.AspectRatio,
		ImageSize:    c.Generation.ImageSize,
		SystemPrompt: c.Generation.SystemPrompt,
		Seed:         c.Generation.Seed,
	}
}

// ClientOptions は generator.Options を組み立てます。
func (c Config) ClientOptions() generator.Options {
	return generator.Options{
		PrimaryModel:  c.Generation.PrimaryModel,
		FallbackModel: c.Generation.FallbackModel,
		Config:        c.GenerateConfig(),
		MaxRetries:    c.Generation.MaxRetries,
		BaseDelay:     c.Generation.BaseDelay,
	}
}

// CompressQuality は Backend に渡す圧縮品質です。圧縮しない場合は 0 です。
func (c Config) CompressQuality() int {
	if !c.Generation.Compress {
		return 0
	}
	return c.Generation.CompressQuality
}
