// Package editor はシーン、ツール、マスク生成、生成クライアントを束ねた対話的な編集セッションです。
//
// Editor のメソッドは 1 つの UI ゴルーチンから呼ばれることを想定しています。
// 非同期の編集完了とは内部のミューテックスで直列化されます。
package editor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"sync"

	"github.com/shouni/gemini-mask-editor/pkg/brush"
	"github.com/shouni/gemini-mask-editor/pkg/filter"
	"github.com/shouni/gemini-mask-editor/pkg/generator"
	"github.com/shouni/gemini-mask-editor/pkg/imgutil"
	"github.com/shouni/gemini-mask-editor/pkg/scene"
	"github.com/shouni/gemini-mask-editor/pkg/segment"
	"github.com/shouni/gemini-mask-editor/pkg/usage"
)

const (
	DefaultCanvasWidth  = 800
	DefaultCanvasHeight = 600

	textOriginX = 100
	textOriginY = 100
	logoOriginX = 150
	logoOriginY = 150
	logoWidth   = 150
)

// Options は Editor の設定です。ゼロ値の項目には既定値が使われます。
type Options struct {
	Width       int
	Height      int
	Tolerance   int
	BrushRadius float64
	UserID      string
	// Usage は編集適用時の通知先です。nil ならログに記録するだけです。
	Usage usage.Recorder
}

type dragState struct {
	id           string
	lastX, lastY float64
}

// Editor は 1 枚の衣服画像に対する編集セッションです。
type Editor struct {
	mu sync.Mutex

	scene     *scene.Scene
	tools     ToolController
	segmenter *segment.Segmenter
	brush     *brush.Recorder

	client generator.ImageEditor
	usage  usage.Recorder
	userID string

	instruction string
	activeID    string
	drag        *dragState

	lifetime context.Context
	cancel   context.CancelFunc
	closed   bool
}

// New は base の画像データから編集セッションを作成します。
func New(base []byte, client generator.ImageEditor, opts Options) (*Editor, error) {
	if client == nil {
		return nil, fmt.Errorf("client is required")
	}
	img, err := imgutil.DecodeNRGBA(base)
	if err != nil {
		return nil, fmt.Errorf("ベース画像を読み込めませんでした: %w", err)
	}

	if opts.Width <= 0 {
		opts.Width = DefaultCanvasWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultCanvasHeight
	}
	sc, err := scene.New(opts.Width, opts.Height, scene.NewBaseImage(img))
	if err != nil {
		return nil, err
	}

	rec := opts.Usage
	if rec == nil {
		rec = usage.LogRecorder{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Editor{
		scene:     sc,
		segmenter: segment.New(opts.Tolerance),
		brush:     brush.NewRecorder(opts.BrushRadius),
		client:    client,
		usage:     rec,
		userID:    opts.UserID,
		lifetime:  ctx,
		cancel:    cancel,
	}, nil
}

// Close はセッションを破棄します。送信中の編集は待機中のリトライを含めて中止され、結果は適用されません。
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.cancel()
}

// Tool は現在のツールです。
func (e *Editor) Tool() Tool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tools.Current()
}

// Busy は編集要求が送信中かどうかを返します。
func (e *Editor) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tools.Busy()
}

// SetTool はツールを切り替えます。
// 自動選択やブラシに切り替えたまま何もせずに離れた場合、アクティブなマスク領域は取り除かれます。
func (e *Editor) SetTool(t Tool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	abandoned, err := e.tools.Select(t)
	if err != nil {
		return err
	}
	e.brush.Cancel()
	e.drag = nil
	if abandoned {
		e.clearMask()
	}
	return nil
}

// SetInstructionText は編集指示を設定します。
func (e *Editor) SetInstructionText(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.instruction = s
}

// Instruction は現在の編集指示です。
func (e *Editor) Instruction() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.instruction
}

// ActiveObject は選択中のオブジェクトの ID です。なければ空文字です。
func (e *Editor) ActiveObject() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeID
}

// Objects は z 順のオブジェクト一覧です。
func (e *Editor) Objects() []scene.Object {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scene.Objects()
}

// Count は種別ごとのオブジェクト数です。
func (e *Editor) Count(k scene.Kind) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scene.Count(k)
}

// Render はマスクのプレビューを含むキャンバス全体を描画します。
func (e *Editor) Render() *image.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scene.Render(scene.RenderOptions{})
}

func validPoint(x, y float64) bool {
	return !math.IsNaN(x) && !math.IsNaN(y) && !math.IsInf(x, 0) && !math.IsInf(y, 0)
}

// PointerDown はキャンバス上でのボタン押下です。
func (e *Editor) PointerDown(x, y float64) {
	if !validPoint(x, y) {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}

	switch e.tools.Current() {
	case ToolSelect:
		o, ok := e.scene.HitTest(x, y)
		if !ok {
			e.activeID = ""
			return
		}
		e.activeID = o.Head().ID
		e.drag = &dragState{id: e.activeID, lastX: x, lastY: y}
	case ToolWand:
		if e.tools.Busy() {
			return
		}
		e.segmentAt(x, y)
	case ToolBrush:
		if e.tools.Busy() {
			return
		}
		e.brush.Begin(x, y)
	case ToolAdjust:
	}
}

// PointerMove はポインタの移動です。
func (e *Editor) PointerMove(x, y float64) {
	if !validPoint(x, y) {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}

	switch e.tools.Current() {
	case ToolSelect:
		if e.drag == nil {
			return
		}
		if err := e.scene.Translate(e.drag.id, x-e.drag.lastX, y-e.drag.lastY); err != nil {
			e.drag = nil
			return
		}
		e.drag.lastX, e.drag.lastY = x, y
	case ToolBrush:
		if e.tools.Busy() {
			return
		}
		e.brush.Extend(x, y)
	}
}

// PointerUp はボタンの解放です。ブラシのストロークはここで確定します。
func (e *Editor) PointerUp(x, y float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}

	switch e.tools.Current() {
	case ToolSelect:
		e.drag = nil
	case ToolBrush:
		if e.tools.Busy() {
			return
		}
		if validPoint(x, y) {
			e.brush.Extend(x, y)
		}
		path, ok := e.brush.End()
		if !ok {
			return
		}
		region := scene.NewBrushRegion(path)
		if err := e.scene.Add(region); err != nil {
			slog.Warn("ブラシ領域を追加できませんでした", "error", err)
			return
		}
		e.activeID = region.ID
		e.tools.completed()
	}
}

// segmentAt は自動選択を実行します。e.mu を保持して呼び出します。
func (e *Editor) segmentAt(x, y float64) {
	composite := e.scene.Render(scene.RenderOptions{SkipMasks: true})
	sel, err := e.segmenter.Select(composite, int(math.Floor(x)), int(math.Floor(y)))
	if err != nil {
		if errors.Is(err, segment.ErrOutOfBounds) {
			slog.Debug("キャンバス外のクリックを無視しました", "x", x, "y", y)
			return
		}
		slog.Warn("自動選択に失敗しました", "error", err)
		return
	}

	region := scene.NewWandRegion(sel)
	if err := e.scene.Add(region); err != nil {
		slog.Warn("選択領域を追加できませんでした", "error", err)
		return
	}
	e.activeID = region.ID
	e.tools.completed()
	slog.Debug("自動選択を作成しました", "pixels", sel.Count(), "tolerance", e.segmenter.Tolerance())
}

func (e *Editor) clearMask() {
	if m := e.scene.ActiveMask(); m != nil && m.ID == e.activeID {
		e.activeID = ""
	}
	e.scene.ClearMask()
}

// SelectObject は id のオブジェクトを選択状態にします。
func (e *Editor) SelectObject(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	o, ok := e.scene.Find(id)
	if !ok {
		return scene.ErrNotFound
	}
	if !o.Head().Selectable {
		return scene.ErrNotSelectable
	}
	e.activeID = id
	return nil
}

// DeleteActiveObject は選択中のオブジェクトを取り除きます。
func (e *Editor) DeleteActiveObject() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.activeID == "" {
		return scene.ErrNotFound
	}
	if err := e.scene.Remove(e.activeID); err != nil {
		return err
	}
	e.activeID = ""
	e.drag = nil
	return nil
}

// AddText はテキストを追加し、その ID を返します。content が空なら既定の文言になります。
func (e *Editor) AddText(content string) (string, error) {
	if content == "" {
		content = scene.DefaultTextContent
	}
	t := scene.NewTextAnnotation(content, scene.DefaultTextSize)
	t.Transform.TranslateX, t.Transform.TranslateY = textOriginX, textOriginY

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.scene.Add(t); err != nil {
		return "", err
	}
	e.activeID = t.ID
	return t.ID, nil
}

// AddLogo はロゴ画像を幅 150 に縮小して追加し、その ID を返します。
func (e *Editor) AddLogo(data []byte) (string, error) {
	img, err := imgutil.DecodeNRGBA(data)
	if err != nil {
		return "", fmt.Errorf("ロゴ画像を読み込めませんでした: %w", err)
	}
	logo := scene.NewLogoOverlay(img)
	s := float64(logoWidth) / float64(img.Bounds().Dx())
	logo.Transform = scene.Transform{TranslateX: logoOriginX, TranslateY: logoOriginY, ScaleX: s, ScaleY: s}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.scene.Add(logo); err != nil {
		return "", err
	}
	e.activeID = logo.ID
	return logo.ID, nil
}

// SetFilter は画像オブジェクトの色調整を更新します。id が空ならベース画像が対象です。
// 調整は毎回原画から計算し直されます。
func (e *Editor) SetFilter(id string, p filter.Patch) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var o scene.Object = e.scene.Base()
	if id != "" {
		found, ok := e.scene.Find(id)
		if !ok {
			return scene.ErrNotFound
		}
		o = found
	}

	var layer *scene.ImageLayer
	switch v := o.(type) {
	case *scene.BaseImage:
		layer = &v.ImageLayer
	case *scene.LogoOverlay:
		layer = &v.ImageLayer
	case *scene.TextAnnotation, *scene.MaskRegion:
		return ErrNotImage
	default:
		return fmt.Errorf("%w: %T", scene.ErrUnknownObject, v)
	}
	layer.SetFilter(layer.Filter.With(p))
	return nil
}

// ExportCurrentImage は現在のベース画像 (色調整後) を PNG で返します。
func (e *Editor) ExportCurrentImage() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return imgutil.EncodePNG(e.scene.Base().Pixels)
}
