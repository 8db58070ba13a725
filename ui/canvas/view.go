// Package canvas provides the score canvas: the base page image with
// fingering, confidence, and playback overlays under a shared pan/zoom
// transform.
package canvas

import (
	"sync"

	"score-viewer/pkg/geometry"
)

// Zoom limits and step shared by wheel zoom and the menu actions.
const (
	MinZoom  = 0.5
	MaxZoom  = 3.0
	ZoomStep = 1.25
)

// View owns the pan/zoom state of the score display. One View is applied
// identically to the base image and every overlay, so they can never drift
// apart. Gestures mutate it on the UI loop while the raster draw reads it,
// so access is mutex-guarded. The zero value is unusable; call NewView.
type View struct {
	mu      sync.RWMutex
	zoom    float64
	offsetX float64
	offsetY float64
}

// NewView creates a view at 1:1 zoom with no pan.
func NewView() *View {
	return &View{zoom: 1.0}
}

// Zoom returns the current zoom factor.
func (v *View) Zoom() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.zoom
}

// SetZoom sets the zoom factor, clamped to [MinZoom, MaxZoom].
func (v *View) SetZoom(zoom float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.setZoom(zoom)
}

// setZoom clamps and stores the zoom factor. Caller holds the mutex.
func (v *View) setZoom(zoom float64) {
	if zoom < MinZoom {
		zoom = MinZoom
	}
	if zoom > MaxZoom {
		zoom = MaxZoom
	}
	v.zoom = zoom
}

// ZoomIn increases the zoom by one step.
func (v *View) ZoomIn() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.setZoom(v.zoom * ZoomStep)
}

// ZoomOut decreases the zoom by one step.
func (v *View) ZoomOut() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.setZoom(v.zoom / ZoomStep)
}

// Offset returns the current pan offset in screen pixels.
func (v *View) Offset() (x, y float64) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.offsetX, v.offsetY
}

// PanBy shifts the view by a screen-space delta.
func (v *View) PanBy(dx, dy float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.offsetX += dx
	v.offsetY += dy
}

// SetOffset sets the pan offset directly.
func (v *View) SetOffset(x, y float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.offsetX = x
	v.offsetY = y
}

// Reset restores 1:1 zoom and zero pan.
func (v *View) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.zoom = 1.0
	v.offsetX = 0
	v.offsetY = 0
}

// Transform returns the document-to-screen affine transform.
func (v *View) Transform() geometry.AffineTransform {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return geometry.Translation(v.offsetX, v.offsetY).Compose(geometry.Scale(v.zoom))
}

// ScreenToDocument maps a screen point into document space by inverting the
// current transform. The transform is scale+translate with clamped scale,
// so the inverse always exists.
func (v *View) ScreenToDocument(pt geometry.Point2D) geometry.Point2D {
	inv, ok := v.Transform().Inverse()
	if !ok {
		return pt
	}
	return inv.Apply(pt)
}

// DocumentToScreen maps a document point into screen space.
func (v *View) DocumentToScreen(pt geometry.Point2D) geometry.Point2D {
	return v.Transform().Apply(pt)
}
