// Command mask-edit は衣服画像の一部を選択し、指示に従って生成 AI で部分編集します。
//
//	mask-edit -in shirt.png -wand 400,300 -instruction "make the body navy" -out edited.png
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/patrickmn/go-cache"
	"google.golang.org/genai"

	"github.com/shouni/gemini-mask-editor/pkg/config"
	"github.com/shouni/gemini-mask-editor/pkg/domain"
	"github.com/shouni/gemini-mask-editor/pkg/editor"
	"github.com/shouni/gemini-mask-editor/pkg/filter"
	"github.com/shouni/gemini-mask-editor/pkg/generator"
	"github.com/shouni/gemini-mask-editor/pkg/source"
	"github.com/shouni/gemini-mask-editor/pkg/usage"
)

const apiKeyEnv = "GEMINI_API_KEY"

type options struct {
	configPath  string
	input       string
	output      string
	instruction string
	wand        string
	stroke      string
	logo        string
	text        string
	hue         float64
	saturation  float64
	brightness  float64
	userID      string
	timeout     time.Duration
	verbose     bool
}

func parseFlags(args []string) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("mask-edit", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "YAML config file")
	fs.StringVar(&o.input, "in", "", "base image (file path, data URL, https:// or gs://)")
	fs.StringVar(&o.output, "out", "edited.png", "output PNG path")
	fs.StringVar(&o.instruction, "instruction", "", "edit instruction; empty skips the AI edit")
	fs.StringVar(&o.wand, "wand", "", "magic wand click in canvas coordinates, e.g. 400,300")
	fs.StringVar(&o.stroke, "brush", "", "brush stroke points in canvas coordinates, e.g. 100,100;150,120")
	fs.StringVar(&o.logo, "logo", "", "logo image to overlay before selecting")
	fs.StringVar(&o.text, "text", "", "text annotation to overlay before selecting")
	fs.Float64Var(&o.hue, "hue", 0, "hue rotation in degrees [-180,180]")
	fs.Float64Var(&o.saturation, "saturation", 0, "saturation [-100,100]")
	fs.Float64Var(&o.brightness, "brightness", 0, "brightness [-100,100]")
	fs.StringVar(&o.userID, "user", "local", "user id reported with usage")
	fs.DurationVar(&o.timeout, "timeout", 5*time.Minute, "overall timeout")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.input == "" {
		return nil, errors.New("-in is required")
	}
	if o.wand != "" && o.stroke != "" {
		return nil, errors.New("-wand and -brush are mutually exclusive")
	}
	return o, nil
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	if err := run(ctx, o); err != nil {
		slog.Error("処理に失敗しました", "error", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFile(path)
}

func run(ctx context.Context, o *options) error {
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return err
	}

	store := cache.New(cfg.Source.CacheTTL, 2*cfg.Source.CacheTTL)
	loader := source.NewLoader(nil, nil, store, cfg.Source.CacheTTL)

	base, err := loader.Load(ctx, o.input)
	if err != nil {
		return fmt.Errorf("入力画像: %w", err)
	}

	client, err := newClient(ctx, cfg, o.instruction != "")
	if err != nil {
		return err
	}

	ed, err := editor.New(base, client, editor.Options{
		Width:       cfg.Canvas.Width,
		Height:      cfg.Canvas.Height,
		Tolerance:   cfg.Tools.Tolerance,
		BrushRadius: cfg.Tools.BrushRadius,
		UserID:      o.userID,
		Usage:       usage.LogRecorder{},
	})
	if err != nil {
		return err
	}
	defer ed.Close()

	if err := decorate(ctx, ed, loader, o); err != nil {
		return err
	}
	if err := selectRegion(ed, o); err != nil {
		return err
	}
	if o.hue != 0 || o.saturation != 0 || o.brightness != 0 {
		if err := ed.SetFilter("", filter.Patch{Hue: &o.hue, Saturation: &o.saturation, Brightness: &o.brightness}); err != nil {
			return err
		}
	}

	if o.instruction != "" {
		ed.SetInstructionText(o.instruction)
		done, err := ed.SubmitEdit(ctx)
		if err != nil {
			return err
		}
		if err := <-done; err != nil {
			return fmt.Errorf("画像編集: %w", err)
		}
	}

	out, err := ed.ExportCurrentImage()
	if err != nil {
		return err
	}
	if err := os.WriteFile(o.output, out, 0o644); err != nil {
		return fmt.Errorf("出力の書き込みに失敗しました: %w", err)
	}
	slog.InfoContext(ctx, "画像を保存しました", "path", o.output, "bytes", len(out))
	return nil
}

// newClient は genai のクライアントから再試行付きの生成クライアントを組み立てます。
// 編集しない場合は API キーを要求しません。
func newClient(ctx context.Context, cfg config.Config, needed bool) (generator.ImageEditor, error) {
	if !needed {
		return offlineEditor{}, nil
	}
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("環境変数 %s が設定されていません", apiKeyEnv)
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの初期化に失敗しました: %w", err)
	}
	backend, err := generator.NewGenaiBackend(gc.Models, cfg.CompressQuality())
	if err != nil {
		return nil, err
	}
	return generator.NewClient(backend, cfg.ClientOptions())
}

// offlineEditor は編集指示がないときに使う、常に失敗する ImageEditor です。
type offlineEditor struct{}

func (offlineEditor) SubmitInstructedEdit(context.Context, domain.EditRequest) (*domain.ImageResponse, error) {
	return nil, errors.New("no generation backend configured")
}
