package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/shouni/gemini-mask-editor/pkg/domain"
)

// Options は Client の設定です。ゼロ値の項目には既定値が使われます。
type Options struct {
	PrimaryModel  string
	FallbackModel string
	Config        domain.GenerateConfig
	MaxRetries    int
	BaseDelay     time.Duration

	// NewTimer は待機用のタイマーを返します。nil なら実時間のタイマーを使います。
	NewTimer func() backoff.Timer
	// OnAttempt は各試行の直前に呼ばれます。
	OnAttempt func(domain.GenerationAttempt)
}

// Client は一時的な失敗の再試行とフォールバックモデルへの切り替えを行う ImageEditor です。
type Client struct {
	backend Backend
	opts    Options
}

var _ ImageEditor = (*Client)(nil)

// NewClient は Client を初期化します。
func NewClient(backend Backend, opts Options) (*Client, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	if opts.PrimaryModel == "" {
		opts.PrimaryModel = DefaultPrimaryModel
	}
	if opts.FallbackModel == "" {
		opts.FallbackModel = DefaultFallbackModel
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = DefaultBaseDelay
	}
	return &Client{backend: backend, opts: opts}, nil
}

// SubmitInstructedEdit は主モデルで編集を試み、失敗の種類に応じて再試行やフォールバックを行います。
// 両モデルとも失敗した場合はフォールバックモデルの最後のエラーをそのまま返します。
func (c *Client) SubmitInstructedEdit(ctx context.Context, req domain.EditRequest) (*domain.ImageResponse, error) {
	resp, err := c.runWithRetry(ctx, req, c.opts.PrimaryModel, c.opts.Config)
	if err == nil {
		return resp, nil
	}
	if Classify(err) == Terminal {
		return nil, err
	}

	slog.WarnContext(ctx, "主モデルが利用できないためフォールバックモデルに切り替えます",
		"primary", c.opts.PrimaryModel,
		"fallback", c.opts.FallbackModel,
		"error", err,
	)
	return c.runWithRetry(ctx, req, c.opts.FallbackModel, c.opts.Config.WithoutImageSize())
}

// runWithRetry は1つのモデルに対し、一時的な失敗だけを MaxRetries 回まで再試行します。
func (c *Client) runWithRetry(ctx context.Context, req domain.EditRequest, model string, cfg domain.GenerateConfig) (*domain.ImageResponse, error) {
	attempt := domain.GenerationAttempt{
		Model:      model,
		Config:     cfg,
		MaxRetries: c.opts.MaxRetries,
	}

	op := func() (*domain.ImageResponse, error) {
		attempt.Attempt++
		if c.opts.OnAttempt != nil {
			c.opts.OnAttempt(attempt)
		}
		slog.DebugContext(ctx, "画像編集リクエストを送信します", "model", model, "attempt", attempt.Attempt)

		resp, err := c.backend.Submit(ctx, req, model, cfg)
		if err == nil {
			return resp, nil
		}
		if Classify(err) != Transient {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	notify := func(err error, d time.Duration) {
		attempt.Backoff = d
		slog.WarnContext(ctx, "一時的なエラーのため再試行します",
			"model", model,
			"attempt", attempt.Attempt,
			"delay", d,
			"error", err,
		)
	}

	var b backoff.BackOff = &doublingBackOff{base: c.opts.BaseDelay}
	b = backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.opts.MaxRetries)), ctx)

	var timer backoff.Timer
	if c.opts.NewTimer != nil {
		timer = c.opts.NewTimer()
	}
	return backoff.RetryNotifyWithTimerAndData(op, b, notify, timer)
}
