package canvas

import (
	"image"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"

	"score-viewer/internal/coord"
	"score-viewer/internal/score"
	"score-viewer/pkg/geometry"
)

// ScoreCanvas displays one page of the score: the pre-rendered base image
// with the fingering, confidence, and playback overlays composited on top,
// all under the shared View transform. Drag pans, wheel zooms, tap
// hit-tests a note.
type ScoreCanvas struct {
	widget.BaseWidget

	view   *View
	raster *fynecanvas.Raster

	// mu guards the page state below. Gestures mutate it on the UI loop,
	// SetActiveNote arrives on the playback tick goroutine, and draw reads
	// it on the raster thread.
	mu        sync.RWMutex
	doc       *score.Document
	page      int
	bridge    *coord.Bridge
	baseImage image.Image

	activeNoteID string

	buildBridge func(doc *score.Document, page int) *coord.Bridge

	// OnNoteTapped is called with the note under a tap, in document space.
	// Taps that hit no note are ignored.
	OnNoteTapped func(n *score.Note)

	// OnViewChanged is called after any pan or zoom change.
	OnViewChanged func()
}

// NewScoreCanvas creates an empty score canvas. buildBridge constructs the
// coordinate bridge for a (document, page) pair; injecting it keeps layout
// configuration out of the widget.
func NewScoreCanvas(buildBridge func(doc *score.Document, page int) *coord.Bridge) *ScoreCanvas {
	sc := &ScoreCanvas{
		view:        NewView(),
		page:        1,
		buildBridge: buildBridge,
	}
	sc.raster = fynecanvas.NewRaster(sc.draw)
	sc.ExtendBaseWidget(sc)
	return sc
}

// View returns the canvas's pan/zoom state.
func (sc *ScoreCanvas) View() *View {
	return sc.view
}

// Bridge returns the coordinate bridge for the displayed page, or nil
// before a document is set.
func (sc *ScoreCanvas) Bridge() *coord.Bridge {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.bridge
}

// SetDocument installs a document snapshot and rebuilds the bridge for the
// current page. Called on load and after every copy-on-write edit.
func (sc *ScoreCanvas) SetDocument(doc *score.Document) {
	sc.mu.Lock()
	sc.doc = doc
	sc.rebuildLocked()
	sc.mu.Unlock()
	sc.Refresh()
}

// SetPage switches the displayed page. The active highlight is cleared
// unconditionally: note ids are unique per document, so id diffing alone
// could leave the previous page's highlight on screen for a frame.
func (sc *ScoreCanvas) SetPage(page int, baseImage image.Image) {
	sc.mu.Lock()
	sc.page = page
	sc.baseImage = baseImage
	sc.activeNoteID = ""
	sc.rebuildLocked()
	sc.mu.Unlock()
	sc.Refresh()
}

// SetActiveNote updates the playback highlight. Repaints only on change.
// Safe to call from the playback tick goroutine.
func (sc *ScoreCanvas) SetActiveNote(id string) {
	sc.mu.Lock()
	if id == sc.activeNoteID {
		sc.mu.Unlock()
		return
	}
	sc.activeNoteID = id
	sc.mu.Unlock()
	sc.Refresh()
}

// ActiveNote returns the id of the currently highlighted note, or "".
func (sc *ScoreCanvas) ActiveNote() string {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.activeNoteID
}

// rebuildLocked rebuilds the bridge for the current (document, page) pair.
// Caller holds the mutex.
func (sc *ScoreCanvas) rebuildLocked() {
	if sc.doc != nil {
		sc.bridge = sc.buildBridge(sc.doc, sc.page)
	} else {
		sc.bridge = nil
	}
}

// Refresh repaints the raster.
func (sc *ScoreCanvas) Refresh() {
	sc.raster.Refresh()
	sc.BaseWidget.Refresh()
}

// Tapped hit-tests the tap against note geometry: the screen point is
// mapped into document space through the inverse view transform and handed
// to the bridge.
func (sc *ScoreCanvas) Tapped(ev *fyne.PointEvent) {
	bridge := sc.Bridge()
	if bridge == nil || sc.OnNoteTapped == nil {
		return
	}
	pt := sc.view.ScreenToDocument(geometry.NewPoint2D(float64(ev.Position.X), float64(ev.Position.Y)))
	if n := bridge.NoteAtPoint(pt); n != nil {
		sc.OnNoteTapped(n)
	}
}

// Dragged pans the view.
func (sc *ScoreCanvas) Dragged(ev *fyne.DragEvent) {
	sc.view.PanBy(float64(ev.Dragged.DX), float64(ev.Dragged.DY))
	sc.viewChanged()
}

// DragEnd implements fyne.Draggable.
func (sc *ScoreCanvas) DragEnd() {}

// Scrolled zooms around the cursor so the point under the wheel stays put.
func (sc *ScoreCanvas) Scrolled(ev *fyne.ScrollEvent) {
	mx := float64(ev.Position.X)
	my := float64(ev.Position.Y)
	anchor := sc.view.ScreenToDocument(geometry.NewPoint2D(mx, my))

	if ev.Scrolled.DY > 0 {
		sc.view.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		sc.view.ZoomOut()
	} else {
		return
	}

	// Re-anchor so the document point under the cursor is unchanged.
	moved := sc.view.DocumentToScreen(anchor)
	sc.view.PanBy(mx-moved.X, my-moved.Y)
	sc.viewChanged()
}

func (sc *ScoreCanvas) viewChanged() {
	if sc.OnViewChanged != nil {
		sc.OnViewChanged()
	}
	sc.Refresh()
}

// draw renders the page: white background, base image under the view
// transform, then the overlays through the software render surface. It runs
// on the raster thread, so it works from a snapshot of the page state.
func (sc *ScoreCanvas) draw(w, h int) image.Image {
	sc.mu.RLock()
	doc := sc.doc
	bridge := sc.bridge
	baseImage := sc.baseImage
	activeID := sc.activeNoteID
	sc.mu.RUnlock()

	output := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(output, output.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)

	t := sc.view.Transform()

	if baseImage != nil {
		sb := baseImage.Bounds()
		dst := t.TransformRect(geometry.NewRect(0, 0, float64(sb.Dx()), float64(sb.Dy())))
		xdraw.ApproxBiLinear.Scale(output,
			image.Rect(int(dst.X), int(dst.Y), int(dst.X+dst.Width), int(dst.Y+dst.Height)),
			baseImage, sb, xdraw.Over, nil)
	}

	if bridge != nil {
		surface := NewRGBASurface(output)
		var regions []score.LowConfidenceRegion
		if doc != nil {
			regions = score.LowConfidenceRegions(doc)
		}
		DrawConfidenceHighlights(surface, bridge, t, regions)
		DrawFingeringMarkers(surface, bridge, t)
		DrawPlaybackHighlight(surface, bridge, t, activeID)
	}

	return output
}

// CreateRenderer implements fyne.Widget.
func (sc *ScoreCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(sc.raster)
}

// MinSize implements fyne.Widget.
func (sc *ScoreCanvas) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}
