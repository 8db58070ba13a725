// Package playback derives the currently sounding note from a stream of
// playback positions and drives that stream from a wall-clock ticker.
package playback

import (
	"score-viewer/internal/score"
)

// Resolver maps a playback position in seconds to the id of the note
// sounding at that instant on one page. It holds the page-filtered note
// slice and recomputes from scratch on every call; there is no cached or
// incremental state to invalidate.
//
// The scan is O(n) per tick, fine for the hundreds of notes a page
// typically carries at 10-60 Hz tick rates. Pages with very large note
// counts would want a sorted-onset index with binary search instead.
type Resolver struct {
	notes []*score.Note
}

// NewResolver creates a resolver over the notes of the displayed page.
func NewResolver(doc *score.Document, page int) *Resolver {
	return &Resolver{notes: doc.NotesOnPage(page)}
}

// Resolve returns the id of the note sounding at the given position, or ""
// when none is. A note sounds over the half-open interval
// [onset, onset+duration). When several notes overlap (chords), the first
// in document order wins, so the result is deterministic.
func (r *Resolver) Resolve(position float64) string {
	for _, n := range r.notes {
		onset := n.Time.OnsetSeconds
		if position >= onset && position < onset+n.Duration.Seconds {
			return n.ID
		}
	}
	return ""
}
