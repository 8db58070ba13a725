// Package score provides the immutable symbolic score document model.
//
// A Document is the in-memory form of one job's symbolic score IR: the JSON
// artifact produced by the recognition and fingering services. It is decoded
// and validated once at load time; afterwards it is treated as immutable
// except through the copy-on-write fingering edit path.
package score

import (
	"score-viewer/pkg/geometry"
)

// HandLeft and HandRight are the accepted fingering hand values.
const (
	HandLeft  = "left"
	HandRight = "right"
)

// CoordPixels and CoordNormalized are the accepted bounding-box coordinate
// systems.
const (
	CoordPixels     = "pixels"
	CoordNormalized = "normalized"
)

// Document is the symbolic score for one job. Notes are held by pointer so
// a copy-on-write edit can replace a single note while every untouched note
// keeps its identity.
type Document struct {
	Version       string        `json:"version"`
	Metadata      Metadata      `json:"metadata"`
	TimeSignature TimeSignature `json:"time_signature"`
	KeySignature  KeySignature  `json:"key_signature"`
	Tempo         Tempo         `json:"tempo"`
	Staves        []Staff       `json:"staves"`
	Notes         []*Note       `json:"notes"`
}

// Note is a single note event with dual temporal coordinates (metric and
// seconds) and spatial coordinates (staff, page, optional bounding box).
type Note struct {
	ID        string     `json:"note_id"`
	Time      Temporal   `json:"time"`
	Duration  Duration   `json:"duration"`
	Spatial   Spatial    `json:"spatial"`
	Fingering *Fingering `json:"fingering,omitempty"`

	// Detection confidence from the recognition stage, 0..1.
	Confidence float64 `json:"confidence,omitempty"`
}

// Temporal is a note's position in both metric and continuous time.
type Temporal struct {
	OnsetSeconds float64 `json:"onset_seconds"`
	Measure      int     `json:"measure"` // 1-indexed
	Beat         float64 `json:"beat"`    // 0-indexed within the measure
}

// Duration is a note's length in seconds.
type Duration struct {
	Seconds float64 `json:"duration_seconds"`
}

// Spatial is a note's placement on the rendered page.
type Spatial struct {
	StaffID string `json:"staff_id"`

	// StaffPosition is a signed offset from the middle staff line in
	// half-line-spacing units. Positive values sit higher on the staff.
	StaffPosition float64 `json:"staff_position"`

	PageNumber int `json:"page_number"` // 1-indexed

	// BoundingBox, when present, overrides computed notehead geometry.
	BoundingBox *BoundingBox `json:"bounding_box,omitempty"`
}

// BoundingBox is a note's drawn box on the rendered page, in either pixel
// or normalized (0..1 of the page extent) coordinates.
type BoundingBox struct {
	geometry.Rect

	// CoordinateSystem is CoordPixels or CoordNormalized; empty means
	// pixels. Normalized boxes are scaled to the canvas at query time.
	CoordinateSystem string `json:"coordinate_system,omitempty"`
}

// Fingering is a fingering annotation for one note.
type Fingering struct {
	Finger       int                    `json:"finger"` // 0 = none, 1..5
	Hand         string                 `json:"hand"`   // "left" or "right"
	Confidence   float64                `json:"confidence"`
	Alternatives []FingeringAlternative `json:"alternatives,omitempty"`
}

// FingeringAlternative is a ranked alternative fingering suggestion.
type FingeringAlternative struct {
	Finger     int     `json:"finger"`
	Confidence float64 `json:"confidence"`
}

// Staff describes one staff of the system.
type Staff struct {
	ID       string `json:"staff_id"`
	Clef     string `json:"clef"`
	PartName string `json:"part_name,omitempty"`
}

// TimeSignature is the global time signature.
type TimeSignature struct {
	Numerator   int `json:"numerator"`
	Denominator int `json:"denominator"`
}

// BeatsPerMeasure returns the numerator, defaulting to 4 when the document
// carries no usable time signature.
func (ts TimeSignature) BeatsPerMeasure() float64 {
	if ts.Numerator < 1 {
		return 4
	}
	return float64(ts.Numerator)
}

// KeySignature is the global key signature.
type KeySignature struct {
	Fifths int    `json:"fifths"` // sharps positive, flats negative
	Mode   string `json:"mode"`
}

// Tempo is the global tempo marking.
type Tempo struct {
	BPM float64 `json:"bpm"`
}

// Metadata carries document provenance and score characteristics.
type Metadata struct {
	Title    string `json:"title,omitempty"`
	Composer string `json:"composer,omitempty"`

	PageCount int `json:"page_count"`
	NoteCount int `json:"note_count"`

	AverageDetectionConfidence float64               `json:"average_detection_confidence"`
	LowConfidenceRegions       []LowConfidenceRegion `json:"low_confidence_regions,omitempty"`
	Fingering                  *FingeringMetadata    `json:"fingering_metadata,omitempty"`
}

// LowConfidenceRegion marks a measure range with systematically low
// detection confidence.
type LowConfidenceRegion struct {
	StartMeasure      int     `json:"start_measure"`
	EndMeasure        int     `json:"end_measure"`
	AverageConfidence float64 `json:"average_confidence"`
	Reason            string  `json:"reason,omitempty"`
}

// FingeringMetadata summarizes the fingering inference pass.
type FingeringMetadata struct {
	NotesAnnotated int     `json:"notes_annotated"`
	TotalNotes     int     `json:"total_notes"`
	Coverage       float64 `json:"coverage"`
}

// NotesOnPage returns the notes placed on the given 1-indexed page, in
// document order. This is the single place the document's 1-indexed page
// numbering meets the viewer's page selection.
func (d *Document) NotesOnPage(page int) []*Note {
	var notes []*Note
	for _, n := range d.Notes {
		if n.Spatial.PageNumber == page {
			notes = append(notes, n)
		}
	}
	return notes
}

// PageCount returns the number of pages the document spans: the metadata
// page count when present, otherwise the maximum page number over all notes.
func (d *Document) PageCount() int {
	count := d.Metadata.PageCount
	for _, n := range d.Notes {
		if n.Spatial.PageNumber > count {
			count = n.Spatial.PageNumber
		}
	}
	if count < 1 {
		count = 1
	}
	return count
}

// IsGrandStaff reports whether the document renders as a paired
// treble+bass piano system.
func (d *Document) IsGrandStaff() bool {
	return len(d.Staves) == 2
}

// NoteByID returns the note with the given id, or nil.
func (d *Document) NoteByID(id string) *Note {
	for _, n := range d.Notes {
		if n.ID == id {
			return n
		}
	}
	return nil
}
