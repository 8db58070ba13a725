// Package layout computes pixel coordinates for symbolic score elements.
//
// All functions are pure: given the notes of one page and a set of layout
// constants they produce absolute pixel geometry. Nothing here allocates
// per-frame state or panics; malformed input degrades to zero-valued,
// degenerate-but-safe geometry so a bad document can never take down the
// render path.
package layout

import (
	"strconv"
	"strings"

	"score-viewer/internal/score"
	"score-viewer/pkg/geometry"
)

// Constants holds the fixed design values of the score layout. They are
// configuration, never mutated at runtime.
type Constants struct {
	LineSpacing  float64 // distance between adjacent staff lines
	LeftMargin   float64
	RightMargin  float64
	TopMargin    float64
	BottomMargin float64

	// Prefix widths reserved before the first measure.
	ClefWidth          float64
	KeySignatureWidth  float64
	TimeSignatureWidth float64

	MeasureWidth float64
	// NoteOffset shifts a note right of its measure's beat grid position so
	// noteheads clear the barline.
	NoteOffset float64

	// StaffGap separates the two staves of a grand staff.
	StaffGap float64

	// Notehead box used when the document supplies no bounding box.
	NoteheadWidth  float64
	NoteheadHeight float64

	// MarkerOffset raises the fingering marker above the notehead box.
	MarkerOffset float64

	// HighlightMargin inflates a notehead box into a confidence highlight.
	HighlightMargin float64
}

// DefaultConstants returns the standard design values.
func DefaultConstants() Constants {
	return Constants{
		LineSpacing:        10,
		LeftMargin:         40,
		RightMargin:        40,
		TopMargin:          60,
		BottomMargin:       60,
		ClefWidth:          30,
		KeySignatureWidth:  25,
		TimeSignatureWidth: 25,
		MeasureWidth:       120,
		NoteOffset:         10,
		StaffGap:           50,
		NoteheadWidth:      12,
		NoteheadHeight:     10,
		MarkerOffset:       20,
		HighlightMargin:    4,
	}
}

// StaffHeight returns the height of one five-line staff.
func (c Constants) StaffHeight() float64 {
	return 4 * c.LineSpacing
}

// prefixWidth is the horizontal space consumed before measure 1.
func (c Constants) prefixWidth() float64 {
	return c.LeftMargin + c.ClefWidth + c.KeySignatureWidth + c.TimeSignatureWidth
}

// Calculator computes geometry for one page of a document.
type Calculator struct {
	consts          Constants
	beatsPerMeasure float64
	staffCount      int
}

// NewCalculator creates a calculator for a document with the given staff
// count and beats per measure.
func NewCalculator(consts Constants, staffCount int, beatsPerMeasure float64) *Calculator {
	if staffCount < 1 {
		staffCount = 1
	}
	if beatsPerMeasure <= 0 {
		beatsPerMeasure = 4
	}
	return &Calculator{consts: consts, beatsPerMeasure: beatsPerMeasure, staffCount: staffCount}
}

// Constants returns the layout constants in use.
func (c *Calculator) Constants() Constants {
	return c.consts
}

// CanvasSize returns the drawable size for a page containing the given
// notes. An empty page still yields one measure of width so the canvas is
// never degenerate.
func (c *Calculator) CanvasSize(notes []*score.Note) geometry.Size {
	measures := 1
	for _, n := range notes {
		if n != nil && n.Time.Measure > measures {
			measures = n.Time.Measure
		}
	}

	width := c.consts.prefixWidth() + float64(measures)*c.consts.MeasureWidth + c.consts.RightMargin

	height := c.consts.TopMargin + c.consts.StaffHeight() + c.consts.BottomMargin
	if c.staffCount >= 2 {
		height += c.consts.StaffGap + c.consts.StaffHeight()
	}
	return geometry.NewSize(width, height)
}

// StaffTopY returns the Y coordinate of the top line of staff i. Staff 0 is
// the topmost system; staff 1 of a grand staff sits a staff height plus gap
// below it.
func (c *Calculator) StaffTopY(staffIndex int) float64 {
	if staffIndex < 0 {
		staffIndex = 0
	}
	return c.consts.TopMargin + float64(staffIndex)*(c.consts.StaffHeight()+c.consts.StaffGap)
}

// StaffCenterY returns the Y coordinate of the middle line of staff i.
func (c *Calculator) StaffCenterY(staffIndex int) float64 {
	return c.StaffTopY(staffIndex) + 2*c.consts.LineSpacing
}

// NoteX returns the horizontal center of a note at the given metric
// position. It is non-decreasing in (measure, beat) lexicographic order.
func (c *Calculator) NoteX(measure int, beat float64) float64 {
	if measure < 1 {
		measure = 1
	}
	if beat < 0 {
		beat = 0
	}
	return c.consts.prefixWidth() +
		float64(measure-1)*c.consts.MeasureWidth +
		beat*(c.consts.MeasureWidth/c.beatsPerMeasure) +
		c.consts.NoteOffset
}

// NoteY returns the vertical center of a note at the given staff position.
// Y grows downward, so a positive staff position (above the middle line)
// subtracts from the staff center.
func (c *Calculator) NoteY(staffIndex int, staffPosition float64) float64 {
	return c.StaffCenterY(staffIndex) - staffPosition*(c.consts.LineSpacing/2)
}

// NoteBoundingBox returns the fixed-size notehead box centered on the
// note's computed position. Used only when the document supplies no
// explicit bounding box.
func (c *Calculator) NoteBoundingBox(n *score.Note) geometry.Rect {
	if n == nil {
		return geometry.NewRect(0, 0, 0, 0)
	}
	x := c.NoteX(n.Time.Measure, n.Time.Beat)
	y := c.NoteY(StaffIndex(n.Spatial.StaffID), n.Spatial.StaffPosition)
	return geometry.NewRect(
		x-c.consts.NoteheadWidth/2,
		y-c.consts.NoteheadHeight/2,
		c.consts.NoteheadWidth,
		c.consts.NoteheadHeight,
	)
}

// StaffIndex resolves a document staff id to a staff index. Ids of the form
// "staff_<n>" parse directly; otherwise clef-name substrings decide
// ("bass" means the lower staff of a grand system). Unrecognized ids fall
// back to staff 0 rather than failing.
func StaffIndex(staffID string) int {
	if rest, ok := strings.CutPrefix(staffID, "staff_"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 0 {
			return n
		}
	}
	lower := strings.ToLower(staffID)
	if strings.Contains(lower, "bass") {
		return 1
	}
	if strings.Contains(lower, "treble") {
		return 0
	}
	return 0
}
