package score

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Load reads and validates a score document from a JSON file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading score document: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a score document from JSON bytes. The
// document is checked once here, fail-fast; downstream geometry code relies
// on an admitted document and never re-validates.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding score document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("validating score document: %w", err)
	}
	return &doc, nil
}

// Validate checks the structural invariants of the document: non-empty
// unique note ids, 1-indexed measures and pages, finite numeric fields,
// recognized bounding-box coordinate systems, and fingering values in range.
// It returns the first violation found.
func (d *Document) Validate() error {
	seen := make(map[string]bool, len(d.Notes))
	for i, n := range d.Notes {
		if n == nil {
			return fmt.Errorf("note %d: nil entry", i)
		}
		if n.ID == "" {
			return fmt.Errorf("note %d: empty note_id", i)
		}
		if seen[n.ID] {
			return fmt.Errorf("note %q: duplicate note_id", n.ID)
		}
		seen[n.ID] = true

		if n.Time.Measure < 1 {
			return fmt.Errorf("note %q: measure %d, want >= 1", n.ID, n.Time.Measure)
		}
		if n.Spatial.PageNumber < 1 {
			return fmt.Errorf("note %q: page_number %d, want >= 1", n.ID, n.Spatial.PageNumber)
		}
		for name, v := range map[string]float64{
			"onset_seconds":    n.Time.OnsetSeconds,
			"beat":             n.Time.Beat,
			"duration_seconds": n.Duration.Seconds,
			"staff_position":   n.Spatial.StaffPosition,
		} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("note %q: %s is not finite", n.ID, name)
			}
		}
		if n.Time.OnsetSeconds < 0 {
			return fmt.Errorf("note %q: negative onset_seconds", n.ID)
		}
		if n.Duration.Seconds < 0 {
			return fmt.Errorf("note %q: negative duration_seconds", n.ID)
		}
		if bb := n.Spatial.BoundingBox; bb != nil {
			switch bb.CoordinateSystem {
			case "", CoordPixels, CoordNormalized:
			default:
				return fmt.Errorf("note %q: coordinate_system %q, want %q or %q",
					n.ID, bb.CoordinateSystem, CoordPixels, CoordNormalized)
			}
		}
		if f := n.Fingering; f != nil {
			if f.Finger < 0 || f.Finger > 5 {
				return fmt.Errorf("note %q: finger %d, want 0..5", n.ID, f.Finger)
			}
			if f.Hand != HandLeft && f.Hand != HandRight {
				return fmt.Errorf("note %q: hand %q, want %q or %q", n.ID, f.Hand, HandLeft, HandRight)
			}
		}
	}
	return nil
}
