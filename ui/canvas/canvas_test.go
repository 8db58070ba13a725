package canvas

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"score-viewer/internal/coord"
	"score-viewer/internal/layout"
	"score-viewer/internal/score"
)

func newTestCanvas(doc *score.Document) *ScoreCanvas {
	sc := NewScoreCanvas(func(d *score.Document, page int) *coord.Bridge {
		return coord.NewBridge(d, page, layout.DefaultConstants())
	})
	sc.SetDocument(doc)
	return sc
}

func TestSetActiveNoteOnlyRepaintsOnChange(t *testing.T) {
	test.NewApp()
	sc := newTestCanvas(overlayDoc())

	sc.SetActiveNote("n1")
	if sc.ActiveNote() != "n1" {
		t.Fatalf("active note = %q", sc.ActiveNote())
	}
	sc.SetActiveNote("n1") // no-op
	sc.SetActiveNote("")
	if sc.ActiveNote() != "" {
		t.Fatalf("active note not cleared: %q", sc.ActiveNote())
	}
}

func TestSetPageClearsActiveHighlight(t *testing.T) {
	test.NewApp()
	sc := newTestCanvas(overlayDoc())

	sc.SetActiveNote("n1")
	sc.SetPage(2, nil)

	// The highlight clears unconditionally on a page change; waiting for
	// the next tick's id diff could leave a stale highlight for a frame.
	if sc.ActiveNote() != "" {
		t.Fatalf("stale highlight %q survived page change", sc.ActiveNote())
	}
}

// Playback ticks call SetActiveNote from the clock goroutine while the
// raster thread is drawing. Run with -race.
func TestConcurrentTickAndDraw(t *testing.T) {
	test.NewApp()
	sc := newTestCanvas(overlayDoc())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			if i%2 == 0 {
				sc.SetActiveNote("n1")
			} else {
				sc.SetActiveNote("")
			}
		}
	}()

	for i := 0; i < 50; i++ {
		sc.draw(200, 200)
		sc.View().PanBy(1, 0)
	}
	<-done
	sc.draw(200, 200)
}

func TestTappedHitTestsThroughViewTransform(t *testing.T) {
	test.NewApp()
	doc := overlayDoc()
	sc := newTestCanvas(doc)

	var tapped *score.Note
	sc.OnNoteTapped = func(n *score.Note) { tapped = n }

	// The note's document box is (100,100 12x10). At 2x zoom the screen
	// point over its center is (212, 210).
	sc.View().SetZoom(2.0)
	sc.Tapped(&fyne.PointEvent{Position: fyne.NewPos(212, 210)})

	if tapped == nil || tapped.ID != "n1" {
		t.Fatalf("tapped = %v, want n1", tapped)
	}

	tapped = nil
	sc.Tapped(&fyne.PointEvent{Position: fyne.NewPos(5, 5)})
	if tapped != nil {
		t.Fatalf("tap on empty space hit %v", tapped)
	}
}
