// Package render 提供基于 Ebitengine 的绘制表面与帧回调源
package render

import (
	"fmt"
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/bubblehearts/pkg/bubble"
)

// drawState 可保存/恢复的绘制状态
type drawState struct {
	geoM  ebiten.GeoM
	alpha float64
}

// Surface is an offscreen ebiten.Image exposing canvas-style 2D drawing state.
// Translate and Scale compose in the current local coordinate system
// (the operation is applied before the existing transform), matching the
// semantics of an HTML canvas context. Save/Restore push and pop the
// transform together with the global alpha.
//
// Surface is not safe for concurrent use; the Scheduler serializes access.
type Surface struct {
	image *ebiten.Image
	state drawState
	stack []drawState
}

// NewSurface creates an offscreen surface of the given size.
func NewSurface(width, height int) *Surface {
	return &Surface{
		image: ebiten.NewImage(width, height),
		state: drawState{alpha: 1},
	}
}

// Image returns the backing image for compositing onto the screen.
func (s *Surface) Image() *ebiten.Image {
	return s.image
}

// Size implements bubble.Canvas.
func (s *Surface) Size() (int, int) {
	b := s.image.Bounds()
	return b.Dx(), b.Dy()
}

// ClearRect implements bubble.Canvas.
// The rectangle is in surface coordinates and ignores the current transform.
func (s *Surface) ClearRect(x, y, w, h float64) {
	bounds := s.image.Bounds()
	rect := image.Rect(
		int(math.Floor(x)), int(math.Floor(y)),
		int(math.Ceil(x+w)), int(math.Ceil(y+h)),
	).Intersect(bounds)

	if rect.Empty() {
		return
	}
	if rect == bounds {
		s.image.Clear()
		return
	}
	s.image.SubImage(rect).(*ebiten.Image).Clear()
}

// Save implements bubble.Canvas.
func (s *Surface) Save() {
	s.stack = append(s.stack, s.state)
}

// Restore implements bubble.Canvas. Restore without a matching Save is a no-op.
func (s *Surface) Restore() {
	n := len(s.stack)
	if n == 0 {
		return
	}
	s.state = s.stack[n-1]
	s.stack = s.stack[:n-1]
}

// Translate implements bubble.Canvas.
func (s *Surface) Translate(x, y float64) {
	var op ebiten.GeoM
	op.Translate(x, y)
	s.prepend(op)
}

// Scale implements bubble.Canvas.
func (s *Surface) Scale(sx, sy float64) {
	var op ebiten.GeoM
	op.Scale(sx, sy)
	s.prepend(op)
}

// prepend 把 op 放在当前变换之前执行（局部坐标系语义）
func (s *Surface) prepend(op ebiten.GeoM) {
	op.Concat(s.state.geoM)
	s.state.geoM = op
}

// SetGlobalAlpha implements bubble.Canvas. Values are clamped to [0, 1].
func (s *Surface) SetGlobalAlpha(alpha float64) {
	s.state.alpha = math.Max(0, math.Min(1, alpha))
}

// GeoM returns the current transform.
func (s *Surface) GeoM() ebiten.GeoM {
	return s.state.geoM
}

// Alpha returns the current global alpha.
func (s *Surface) Alpha() float64 {
	return s.state.alpha
}

// Depth returns the number of saved states.
func (s *Surface) Depth() int {
	return len(s.stack)
}

// DrawImage implements bubble.Canvas.
// Only *ebiten.Image assets can be blitted; anything else yields ErrAssetNotDrawable.
func (s *Surface) DrawImage(asset bubble.Asset, x, y, w, h float64) error {
	img, ok := asset.(*ebiten.Image)
	if !ok || img == nil {
		return fmt.Errorf("%w: unsupported asset type %T", bubble.ErrAssetNotDrawable, asset)
	}

	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("%w: empty image", bubble.ErrAssetNotDrawable)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w/float64(b.Dx()), h/float64(b.Dy()))
	op.GeoM.Translate(x, y)
	op.GeoM.Concat(s.state.geoM)
	op.ColorScale.ScaleAlpha(float32(s.state.alpha))
	op.Filter = ebiten.FilterLinear
	s.image.DrawImage(img, op)
	return nil
}
