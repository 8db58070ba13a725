// Package coord provides the coordinate bridge: the single component
// overlays may ask for geometry. Every overlay that queries the bridge gets
// exactly the same answer for "where is this note drawn", which rules out
// visual drift between fingering markers, confidence highlights, and the
// playback highlight.
package coord

import (
	"score-viewer/internal/layout"
	"score-viewer/internal/score"
	"score-viewer/pkg/geometry"
)

// Bridge answers geometry queries for one (document, page) pair. It is
// stateless given its inputs; rebuild it whenever either changes. Building
// is O(notes on the page).
type Bridge struct {
	calc  *layout.Calculator
	page  int
	notes []*score.Note
	size  geometry.Size
}

// NewBridge builds a bridge for the given 1-indexed page of a document.
func NewBridge(doc *score.Document, page int, consts layout.Constants) *Bridge {
	staffCount := len(doc.Staves)
	if staffCount < 1 {
		staffCount = 1
	}
	b := &Bridge{
		calc:  layout.NewCalculator(consts, staffCount, doc.TimeSignature.BeatsPerMeasure()),
		page:  page,
		notes: doc.NotesOnPage(page),
	}
	b.size = b.calc.CanvasSize(b.notes)
	return b
}

// Page returns the 1-indexed page this bridge serves.
func (b *Bridge) Page() int {
	return b.page
}

// Notes returns the page's notes in document order.
func (b *Bridge) Notes() []*score.Note {
	return b.notes
}

// Calculator exposes the underlying layout calculator for canvas sizing.
func (b *Bridge) Calculator() *layout.Calculator {
	return b.calc
}

// CanvasSize returns the drawable size of this page.
func (b *Bridge) CanvasSize() geometry.Size {
	return b.size
}

// NoteBoundingBox returns the note's drawn box. A bounding box supplied by
// the document wins over computed notehead geometry; normalized boxes are
// scaled to the page canvas.
func (b *Bridge) NoteBoundingBox(n *score.Note) geometry.Rect {
	if n == nil {
		return geometry.Rect{}
	}
	if bb := n.Spatial.BoundingBox; bb != nil && bb.Width > 0 && bb.Height > 0 {
		if bb.CoordinateSystem == score.CoordNormalized {
			return geometry.NewRect(
				bb.X*b.size.Width,
				bb.Y*b.size.Height,
				bb.Width*b.size.Width,
				bb.Height*b.size.Height,
			)
		}
		return bb.Rect
	}
	return b.calc.NoteBoundingBox(n)
}

// MarkerPosition returns the anchor point for the note's fingering marker,
// a fixed offset above the center of its bounding box.
func (b *Bridge) MarkerPosition(n *score.Note) geometry.Point2D {
	box := b.NoteBoundingBox(n)
	return geometry.Point2D{
		X: box.X + box.Width/2,
		Y: box.Y - b.calc.Constants().MarkerOffset,
	}
}

// HighlightRect returns the note's bounding box inflated by the highlight
// margin, used for confidence highlighting.
func (b *Bridge) HighlightRect(n *score.Note) geometry.Rect {
	return b.NoteBoundingBox(n).Inflate(b.calc.Constants().HighlightMargin)
}

// NoteAtPoint returns the first note in document order whose bounding box
// contains the point, or nil. Overlapping boxes resolve deterministically
// by document order.
func (b *Bridge) NoteAtPoint(pt geometry.Point2D) *score.Note {
	for _, n := range b.notes {
		if b.NoteBoundingBox(n).Contains(pt) {
			return n
		}
	}
	return nil
}
