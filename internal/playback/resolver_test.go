package playback

import (
	"testing"

	"score-viewer/internal/score"
)

func timedNote(id string, onset, dur float64, page int) *score.Note {
	return &score.Note{
		ID:       id,
		Time:     score.Temporal{OnsetSeconds: onset, Measure: 1},
		Duration: score.Duration{Seconds: dur},
		Spatial:  score.Spatial{StaffID: "staff_0", PageNumber: page},
	}
}

func twoNoteDoc() *score.Document {
	return &score.Document{
		Notes: []*score.Note{
			timedNote("n1", 0.0, 0.5, 1),
			timedNote("n2", 0.5, 0.5, 1),
		},
	}
}

func TestResolveSequence(t *testing.T) {
	r := NewResolver(twoNoteDoc(), 1)

	cases := []struct {
		position float64
		want     string
	}{
		{0.0, "n1"},
		{0.3, "n1"},
		{0.5, "n2"}, // n1's interval is half-open, n2 starts exactly here
		{0.6, "n2"},
		{0.99, "n2"},
		{1.0, ""},
		{5.0, ""},
	}
	for _, c := range cases {
		if got := r.Resolve(c.position); got != c.want {
			t.Errorf("Resolve(%g) = %q, want %q", c.position, got, c.want)
		}
	}
}

func TestResolveOnlyCurrentPage(t *testing.T) {
	doc := &score.Document{
		Notes: []*score.Note{
			timedNote("p1", 0.0, 1.0, 1),
			timedNote("p2", 0.0, 1.0, 2),
		},
	}

	if got := NewResolver(doc, 2).Resolve(0.5); got != "p2" {
		t.Fatalf("page 2 resolver returned %q, want p2", got)
	}
	if got := NewResolver(doc, 3).Resolve(0.5); got != "" {
		t.Fatalf("empty page resolver returned %q, want none", got)
	}
}

func TestResolveChordFirstMatchWins(t *testing.T) {
	doc := &score.Document{
		Notes: []*score.Note{
			timedNote("top", 1.0, 1.0, 1),
			timedNote("bottom", 1.0, 1.0, 1),
		},
	}
	r := NewResolver(doc, 1)
	if got := r.Resolve(1.5); got != "top" {
		t.Fatalf("chord resolve = %q, want first note in document order", got)
	}
}

func TestResolveZeroDuration(t *testing.T) {
	doc := &score.Document{
		Notes: []*score.Note{timedNote("grace", 1.0, 0, 1)},
	}
	// A zero-length interval contains no position, not even its onset.
	if got := NewResolver(doc, 1).Resolve(1.0); got != "" {
		t.Fatalf("zero-duration note resolved as %q, want none", got)
	}
}

func TestResolveEmptyDocument(t *testing.T) {
	if got := NewResolver(&score.Document{}, 1).Resolve(0); got != "" {
		t.Fatalf("empty document resolved %q, want none", got)
	}
}
