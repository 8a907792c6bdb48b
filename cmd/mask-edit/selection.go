package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shouni/gemini-mask-editor/pkg/editor"
	"github.com/shouni/gemini-mask-editor/pkg/scene"
	"github.com/shouni/gemini-mask-editor/pkg/source"
)

// parsePoint は "x,y" をキャンバス座標として解析します。
func parsePoint(s string) (scene.Point, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return scene.Point{}, fmt.Errorf("invalid point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return scene.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return scene.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return scene.Point{X: x, Y: y}, nil
}

// parseStroke は "x1,y1;x2,y2;..." を解析します。
func parseStroke(s string) ([]scene.Point, error) {
	var pts []scene.Point
	for _, part := range strings.Split(s, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		p, err := parsePoint(part)
		if err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("brush stroke has no points")
	}
	return pts, nil
}

// decorate はテキストとロゴを配置します。自動選択はこれらを含めた画面を対象にします。
func decorate(ctx context.Context, ed *editor.Editor, loader *source.Loader, o *options) error {
	if o.text != "" {
		if _, err := ed.AddText(o.text); err != nil {
			return err
		}
	}
	if o.logo != "" {
		data, err := loader.Load(ctx, o.logo)
		if err != nil {
			return fmt.Errorf("ロゴ画像: %w", err)
		}
		if _, err := ed.AddLogo(data); err != nil {
			return err
		}
	}
	return nil
}

// selectRegion は自動選択かブラシで編集範囲を作ります。どちらも無ければ画像全体が対象です。
func selectRegion(ed *editor.Editor, o *options) error {
	switch {
	case o.wand != "":
		p, err := parsePoint(o.wand)
		if err != nil {
			return err
		}
		if err := ed.SetTool(editor.ToolWand); err != nil {
			return err
		}
		ed.PointerDown(p.X, p.Y)
	case o.stroke != "":
		pts, err := parseStroke(o.stroke)
		if err != nil {
			return err
		}
		if err := ed.SetTool(editor.ToolBrush); err != nil {
			return err
		}
		ed.PointerDown(pts[0].X, pts[0].Y)
		for _, p := range pts[1:] {
			ed.PointerMove(p.X, p.Y)
		}
		last := pts[len(pts)-1]
		ed.PointerUp(last.X, last.Y)
	}
	return nil
}
