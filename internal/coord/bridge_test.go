package coord

import (
	"testing"

	"score-viewer/internal/layout"
	"score-viewer/internal/score"
	"score-viewer/pkg/geometry"
)

func testDoc() *score.Document {
	return &score.Document{
		TimeSignature: score.TimeSignature{Numerator: 4, Denominator: 4},
		Staves: []score.Staff{
			{ID: "staff_0", Clef: "treble"},
			{ID: "staff_1", Clef: "bass"},
		},
		Notes: []*score.Note{
			{
				ID:      "n1",
				Time:    score.Temporal{Measure: 1, Beat: 0},
				Spatial: score.Spatial{StaffID: "staff_0", StaffPosition: 0, PageNumber: 1},
			},
			{
				ID:      "n2",
				Time:    score.Temporal{Measure: 1, Beat: 2},
				Spatial: score.Spatial{StaffID: "staff_1", StaffPosition: -2, PageNumber: 1},
			},
			{
				ID:      "n3",
				Time:    score.Temporal{Measure: 1, Beat: 0},
				Spatial: score.Spatial{StaffID: "staff_0", StaffPosition: 4, PageNumber: 2},
			},
		},
	}
}

func TestNotesFilteredByPage(t *testing.T) {
	b := NewBridge(testDoc(), 1, layout.DefaultConstants())
	if len(b.Notes()) != 2 {
		t.Fatalf("page 1 has %d notes, want 2", len(b.Notes()))
	}
	for _, n := range b.Notes() {
		if n.Spatial.PageNumber != 1 {
			t.Fatalf("note %s from page %d leaked onto page 1", n.ID, n.Spatial.PageNumber)
		}
	}

	b2 := NewBridge(testDoc(), 2, layout.DefaultConstants())
	if len(b2.Notes()) != 1 || b2.Notes()[0].ID != "n3" {
		t.Fatalf("page 2 notes wrong: %v", b2.Notes())
	}
}

func TestExplicitBoundingBoxWins(t *testing.T) {
	doc := testDoc()
	explicit := score.BoundingBox{Rect: geometry.NewRect(100, 200, 14, 11)}
	doc.Notes[0].Spatial.BoundingBox = &explicit

	b := NewBridge(doc, 1, layout.DefaultConstants())
	if got := b.NoteBoundingBox(doc.Notes[0]); got != explicit.Rect {
		t.Fatalf("bounding box = %+v, want document's %+v", got, explicit.Rect)
	}

	// A degenerate document box falls back to computed geometry.
	degenerate := score.BoundingBox{Rect: geometry.NewRect(5, 5, 0, 0)}
	doc.Notes[1].Spatial.BoundingBox = &degenerate
	got := b.NoteBoundingBox(doc.Notes[1])
	if got.Width <= 0 || got.Height <= 0 {
		t.Fatalf("degenerate document box not replaced: %+v", got)
	}
}

func TestNormalizedBoundingBoxScaledToCanvas(t *testing.T) {
	doc := testDoc()
	doc.Notes[0].Spatial.BoundingBox = &score.BoundingBox{
		Rect:             geometry.NewRect(0.5, 0.25, 0.1, 0.05),
		CoordinateSystem: score.CoordNormalized,
	}

	b := NewBridge(doc, 1, layout.DefaultConstants())
	size := b.CanvasSize()
	got := b.NoteBoundingBox(doc.Notes[0])

	want := geometry.NewRect(0.5*size.Width, 0.25*size.Height, 0.1*size.Width, 0.05*size.Height)
	if got != want {
		t.Fatalf("normalized box = %+v, want %+v scaled to %gx%g canvas",
			got, want, size.Width, size.Height)
	}
	// An explicitly pixel-tagged box passes through untouched.
	doc.Notes[1].Spatial.BoundingBox = &score.BoundingBox{
		Rect:             geometry.NewRect(40, 60, 12, 10),
		CoordinateSystem: score.CoordPixels,
	}
	if got := b.NoteBoundingBox(doc.Notes[1]); got != geometry.NewRect(40, 60, 12, 10) {
		t.Fatalf("pixel box rescaled: %+v", got)
	}
}

func TestMarkerPositionAboveBox(t *testing.T) {
	consts := layout.DefaultConstants()
	b := NewBridge(testDoc(), 1, consts)
	n := b.Notes()[0]

	box := b.NoteBoundingBox(n)
	marker := b.MarkerPosition(n)

	if marker.X != box.X+box.Width/2 {
		t.Fatalf("marker X = %g, want box center %g", marker.X, box.X+box.Width/2)
	}
	if marker.Y != box.Y-consts.MarkerOffset {
		t.Fatalf("marker Y = %g, want %g above box top", marker.Y, box.Y-consts.MarkerOffset)
	}
}

func TestHighlightRectInflated(t *testing.T) {
	consts := layout.DefaultConstants()
	b := NewBridge(testDoc(), 1, consts)
	n := b.Notes()[0]

	box := b.NoteBoundingBox(n)
	hl := b.HighlightRect(n)

	if hl.Width != box.Width+2*consts.HighlightMargin || hl.Height != box.Height+2*consts.HighlightMargin {
		t.Fatalf("highlight %gx%g, want box %gx%g inflated by %g",
			hl.Width, hl.Height, box.Width, box.Height, consts.HighlightMargin)
	}
	if hl.X != box.X-consts.HighlightMargin || hl.Y != box.Y-consts.HighlightMargin {
		t.Fatalf("highlight origin (%g, %g) not centered on box", hl.X, hl.Y)
	}
}

func TestNoteAtPoint(t *testing.T) {
	b := NewBridge(testDoc(), 1, layout.DefaultConstants())
	n := b.Notes()[1]

	if got := b.NoteAtPoint(b.NoteBoundingBox(n).Center()); got == nil || got.ID != "n2" {
		t.Fatalf("NoteAtPoint(center of n2) = %v, want n2", got)
	}
	if got := b.NoteAtPoint(geometry.NewPoint2D(-100, -100)); got != nil {
		t.Fatalf("NoteAtPoint(miss) = %v, want nil", got)
	}
}

func TestNoteAtPointFirstMatchWins(t *testing.T) {
	doc := testDoc()
	// Give n1 and n2 the same explicit box so they overlap exactly.
	shared := score.BoundingBox{Rect: geometry.NewRect(50, 50, 20, 20)}
	doc.Notes[0].Spatial.BoundingBox = &shared
	doc.Notes[1].Spatial.BoundingBox = &shared

	b := NewBridge(doc, 1, layout.DefaultConstants())
	got := b.NoteAtPoint(shared.Center())
	if got == nil || got.ID != "n1" {
		t.Fatalf("overlapping hit = %v, want first note n1", got)
	}
}

func TestCanvasSizeNonDegenerate(t *testing.T) {
	b := NewBridge(testDoc(), 7, layout.DefaultConstants()) // page with no notes
	size := b.CanvasSize()
	if size.Width <= 0 || size.Height <= 0 {
		t.Fatalf("empty page canvas %gx%g, want positive", size.Width, size.Height)
	}
}
