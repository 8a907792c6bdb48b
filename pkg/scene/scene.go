// Package scene は編集キャンバス上のオブジェクト集合を保持します。
//
// シーンには常にベース画像が1つだけ最背面に存在し、
// マスク領域は同時に1つまでしか存在しません。
package scene

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	ErrNotFound      = errors.New("scene: object not found")
	ErrBaseImmutable = errors.New("scene: base image cannot be removed or re-added")
	ErrInvalidCanvas = errors.New("scene: canvas size must be positive")
	ErrNilBaseImage  = errors.New("scene: base image is required")
	ErrNotSelectable = errors.New("scene: object is not selectable")
	ErrUnknownObject = errors.New("scene: unknown object type")
)

// Scene はキャンバス寸法と z 順に並んだオブジェクトです。インデックス 0 が最背面です。
type Scene struct {
	Width   int
	Height  int
	objects []Object
}

// New はベース画像をキャンバスに合わせて配置したシーンを作成します。
func New(width, height int, base *BaseImage) (*Scene, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidCanvas
	}
	if base == nil {
		return nil, ErrNilBaseImage
	}
	s := &Scene{Width: width, Height: height}
	s.fit(base)
	s.objects = []Object{base}
	return s, nil
}

func (s *Scene) fit(b *BaseImage) {
	w, h := b.Size()
	b.Transform = FitToCanvas(w, h, s.Width, s.Height)
	b.Selectable = false
}

// Objects は z 順のオブジェクト一覧の複製を返します。
func (s *Scene) Objects() []Object {
	return slices.Clone(s.objects)
}

// Base は現在のベース画像です。
func (s *Scene) Base() *BaseImage {
	return s.objects[0].(*BaseImage)
}

// ReplaceBase はベース画像を差し替え、キャンバスに合わせて配置し直します。
func (s *Scene) ReplaceBase(b *BaseImage) error {
	if b == nil {
		return ErrNilBaseImage
	}
	s.fit(b)
	s.objects[0] = b
	return nil
}

// Add はオブジェクトを最前面に追加します。
// マスク領域を追加すると既存のマスク領域は取り除かれます。
func (s *Scene) Add(o Object) error {
	switch v := o.(type) {
	case *BaseImage:
		return ErrBaseImmutable
	case *MaskRegion:
		s.ClearMask()
	case *TextAnnotation, *LogoOverlay:
	case nil:
		return fmt.Errorf("%w: nil", ErrUnknownObject)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownObject, v)
	}
	s.objects = append(s.objects, o)
	return nil
}

// ActiveMask は現在のマスク領域を返します。なければ nil です。
func (s *Scene) ActiveMask() *MaskRegion {
	for _, o := range s.objects {
		if m, ok := o.(*MaskRegion); ok {
			return m
		}
	}
	return nil
}

// ClearMask はマスク領域を取り除き、取り除いたかどうかを返します。
func (s *Scene) ClearMask() bool {
	n := len(s.objects)
	s.objects = slices.DeleteFunc(s.objects, func(o Object) bool {
		return o.Kind() == KindMaskRegion
	})
	return len(s.objects) != n
}

// Find は ID でオブジェクトを探します。
func (s *Scene) Find(id string) (Object, bool) {
	i := s.ZIndex(id)
	if i < 0 {
		return nil, false
	}
	return s.objects[i], true
}

// ZIndex はオブジェクトの z 順を返します。見つからなければ -1 です。
func (s *Scene) ZIndex(id string) int {
	return slices.IndexFunc(s.objects, func(o Object) bool {
		return o.Head().ID == id
	})
}

// Remove は ID のオブジェクトを取り除きます。ベース画像は取り除けません。
func (s *Scene) Remove(id string) error {
	i := s.ZIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	if i == 0 {
		return ErrBaseImmutable
	}
	s.objects = slices.Delete(s.objects, i, i+1)
	return nil
}

// Count は種別ごとのオブジェクト数を返します。
func (s *Scene) Count(k Kind) int {
	n := 0
	for _, o := range s.objects {
		if o.Kind() == k {
			n++
		}
	}
	return n
}

// HitTest はキャンバス座標 (x, y) にある最前面の選択可能オブジェクトを返します。
func (s *Scene) HitTest(x, y float64) (Object, bool) {
	for i := len(s.objects) - 1; i >= 0; i-- {
		o := s.objects[i]
		if !o.Head().Selectable {
			continue
		}
		if Bounds(o).Contains(x, y) {
			return o, true
		}
	}
	return nil, false
}

// Translate はオブジェクトを (dx, dy) だけ移動します。ベース画像は動かせません。
func (s *Scene) Translate(id string, dx, dy float64) error {
	o, ok := s.Find(id)
	if !ok {
		return ErrNotFound
	}
	switch v := o.(type) {
	case *BaseImage:
		return ErrNotSelectable
	case *LogoOverlay:
		v.Transform.TranslateX += dx
		v.Transform.TranslateY += dy
	case *TextAnnotation:
		v.Transform.TranslateX += dx
		v.Transform.TranslateY += dy
	case *MaskRegion:
		v.OffsetX += dx
		v.OffsetY += dy
	default:
		return fmt.Errorf("%w: %T", ErrUnknownObject, v)
	}
	return nil
}

// Bounds はオブジェクトのキャンバス上の外接矩形です。
func Bounds(o Object) Rect {
	switch v := o.(type) {
	case *BaseImage:
		w, h := v.Size()
		return v.Transform.Bounds(w, h)
	case *LogoOverlay:
		w, h := v.Size()
		return v.Transform.Bounds(w, h)
	case *TextAnnotation:
		w, h := v.Extent()
		return v.Transform.Bounds(int(math.Ceil(w)), int(math.Ceil(h)))
	case *MaskRegion:
		return v.Bounds()
	default:
		return emptyRect()
	}
}
