// Package brush はポインタの軌跡をブラシストロークとして記録します。
package brush

import "github.com/shouni/gemini-mask-editor/pkg/scene"

// DefaultRadius は既定のブラシ半径 (キャンバス座標) です。
const DefaultRadius = 30

// Recorder は 1 本のストロークを記録します。
type Recorder struct {
	radius float64
	points []scene.Point
	active bool
}

// NewRecorder は半径 radius の Recorder を作成します。0 以下なら DefaultRadius を使います。
func NewRecorder(radius float64) *Recorder {
	if radius <= 0 {
		radius = DefaultRadius
	}
	return &Recorder{radius: radius}
}

// Radius はブラシ半径です。
func (r *Recorder) Radius() float64 { return r.radius }

// Active は記録中かどうかを返します。
func (r *Recorder) Active() bool { return r.active }

// Begin は新しいストロークを (x, y) から開始します。記録中のストロークは破棄されます。
func (r *Recorder) Begin(x, y float64) {
	r.points = []scene.Point{{X: x, Y: y}}
	r.active = true
}

// Extend は記録中のストロークに点を追加します。直前と同じ点は追加しません。
func (r *Recorder) Extend(x, y float64) {
	if !r.active {
		return
	}
	if last := r.points[len(r.points)-1]; last.X == x && last.Y == y {
		return
	}
	r.points = append(r.points, scene.Point{X: x, Y: y})
}

// End はストロークを確定して返します。記録中でなければ false を返します。
func (r *Recorder) End() (*scene.Path, bool) {
	if !r.active {
		return nil, false
	}
	p := &scene.Path{Points: r.points, Radius: r.radius}
	r.points = nil
	r.active = false
	return p, true
}

// Cancel は記録中のストロークを破棄します。
func (r *Recorder) Cancel() {
	r.points = nil
	r.active = false
}
