package score

import "fmt"

// WithFingering returns a new Document in which exactly the note with the
// given id carries the supplied finger and hand. The notes slice is copied
// but every untouched note keeps its pointer identity (copy-on-write), so
// overlays holding references to unedited notes see no change. Alternatives
// and confidence on the edited note are dropped: a user-entered fingering
// is authoritative.
func (d *Document) WithFingering(noteID string, finger int, hand string) (*Document, error) {
	if finger < 0 || finger > 5 {
		return nil, fmt.Errorf("finger %d out of range 0..5", finger)
	}
	if hand != HandLeft && hand != HandRight {
		return nil, fmt.Errorf("hand %q, want %q or %q", hand, HandLeft, HandRight)
	}

	idx := -1
	for i, n := range d.Notes {
		if n.ID == noteID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("note %q not found", noteID)
	}

	edited := *d.Notes[idx]
	edited.Fingering = &Fingering{
		Finger:     finger,
		Hand:       hand,
		Confidence: 1.0,
	}

	notes := make([]*Note, len(d.Notes))
	copy(notes, d.Notes)
	notes[idx] = &edited

	doc := *d
	doc.Notes = notes
	return &doc, nil
}
