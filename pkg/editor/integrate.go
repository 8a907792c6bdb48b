package editor

import (
	"errors"
	"fmt"

	"github.com/shouni/gemini-mask-editor/pkg/domain"
	"github.com/shouni/gemini-mask-editor/pkg/imgutil"
	"github.com/shouni/gemini-mask-editor/pkg/scene"
)

var errEmptyResult = errors.New("editor: empty result image")

// integrate は生成結果を新しいベース画像として差し替えます。e.mu を保持して呼び出します。
// デコードに失敗した場合シーンは変更されません。
func (e *Editor) integrate(resp *domain.ImageResponse) error {
	if resp == nil || len(resp.Data) == 0 {
		return errEmptyResult
	}
	img, err := imgutil.DecodeNRGBA(resp.Data)
	if err != nil {
		return fmt.Errorf("生成結果を読み込めませんでした: %w", err)
	}

	if err := e.scene.ReplaceBase(scene.NewBaseImage(img)); err != nil {
		return err
	}
	e.clearMask()
	e.instruction = ""
	e.tools.reset()
	e.brush.Cancel()
	e.drag = nil
	return nil
}
