package editor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/gemini-mask-editor/pkg/domain"
	"github.com/shouni/gemini-mask-editor/pkg/imgutil"
	"github.com/shouni/gemini-mask-editor/pkg/mask"
)

// SubmitEdit は現在のマスクと編集指示を非同期に送信します。
// 戻り値のチャネルには完了時にちょうど1つの値 (成功なら nil) が送られます。
// 送信中は Busy となり、ツール切り替えと再送信は ErrBusy になります。
func (e *Editor) SubmitEdit(ctx context.Context) (<-chan error, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	if e.tools.Busy() {
		return nil, ErrBusy
	}

	req, err := e.buildRequest()
	if err != nil {
		return nil, err
	}
	if err := e.tools.acquire(); err != nil {
		return nil, err
	}
	e.brush.Cancel()

	opCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(e.lifetime, cancel)

	slog.InfoContext(ctx, "画像編集リクエストを送信します",
		"instruction_len", len(req.Instruction),
		"has_mask", e.scene.ActiveMask() != nil,
	)

	done := make(chan error, 1)
	go func() {
		defer cancel()
		resp, err := e.client.SubmitInstructedEdit(opCtx, req)
		stop()
		done <- e.finish(ctx, resp, err)
	}()
	return done, nil
}

// buildRequest は送信内容を確定させます。e.mu を保持して呼び出します。
func (e *Editor) buildRequest() (domain.EditRequest, error) {
	instruction := strings.TrimSpace(e.instruction)
	if instruction == "" {
		return domain.EditRequest{}, ErrEmptyInstruction
	}

	base, err := imgutil.EncodePNG(e.scene.Base().Pixels)
	if err != nil {
		return domain.EditRequest{}, fmt.Errorf("ベース画像のエンコードに失敗しました: %w", err)
	}
	m, err := mask.ComposePNG(e.scene)
	if err != nil {
		return domain.EditRequest{}, fmt.Errorf("マスクの生成に失敗しました: %w", err)
	}
	return domain.EditRequest{BaseImage: base, Mask: m, Instruction: instruction}, nil
}

// finish は送信結果を反映し、Busy を解除します。
// セッションが既に破棄されていればシーンには触れません。
func (e *Editor) finish(ctx context.Context, resp *domain.ImageResponse, err error) error {
	e.mu.Lock()
	e.tools.release()

	if e.closed {
		e.mu.Unlock()
		slog.DebugContext(ctx, "セッション破棄後に完了した編集結果を破棄しました")
		return ErrClosed
	}
	if err != nil {
		e.mu.Unlock()
		slog.WarnContext(ctx, "画像編集に失敗しました", "error", err)
		return err
	}
	if err := e.integrate(resp); err != nil {
		e.mu.Unlock()
		slog.WarnContext(ctx, "編集結果を適用できませんでした", "error", err)
		return err
	}
	userID := e.userID
	e.mu.Unlock()

	slog.InfoContext(ctx, "画像編集を適用しました", "model", resp.Model)
	if err := e.usage.IncrementUsage(context.WithoutCancel(ctx), userID, 1); err != nil {
		slog.WarnContext(ctx, "利用回数の通知に失敗しました", "user_id", userID, "error", err)
	}
	return nil
}
