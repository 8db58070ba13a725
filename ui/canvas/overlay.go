package canvas

import (
	"image/color"
	"strconv"

	"score-viewer/internal/coord"
	"score-viewer/internal/score"
	"score-viewer/pkg/geometry"
)

// Overlay colors. Hands get distinct marker colors; confidence and playback
// highlights are translucent so the notation stays readable underneath.
var (
	colorRightHand       = color.RGBA{R: 0x1A, G: 0x56, B: 0x9E, A: 0xFF}
	colorLeftHand        = color.RGBA{R: 0x9E, G: 0x2B, B: 0x1A, A: 0xFF}
	colorMarkerText      = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	colorLowConfidence   = color.RGBA{R: 0xFF, G: 0xC1, B: 0x07, A: 0x50}
	colorConfidenceEdge  = color.RGBA{R: 0xFF, G: 0x98, B: 0x00, A: 0xB0}
	colorActiveHighlight = color.RGBA{R: 0x4C, G: 0xAF, B: 0x50, A: 0x60}
	colorActiveEdge      = color.RGBA{R: 0x2E, G: 0x7D, B: 0x32, A: 0xE0}
)

const (
	markerRadius = 9.0
	// Notes below this detection confidence get a confidence highlight.
	confidenceCutoff = 0.7
)

// DrawFingeringMarkers draws a circled finger digit above every note on the
// page that carries a fingering. Geometry comes from the bridge, is mapped
// through the view transform, and notes whose geometry is degenerate are
// skipped rather than drawn wrong.
func DrawFingeringMarkers(s RenderSurface, b *coord.Bridge, t geometry.AffineTransform) {
	for _, n := range b.Notes() {
		f := n.Fingering
		if f == nil || f.Finger < 1 || f.Finger > 5 {
			continue
		}
		box := b.NoteBoundingBox(n)
		if box.Width <= 0 || box.Height <= 0 {
			continue
		}

		center := t.Apply(b.MarkerPosition(n))
		radius := markerRadius * markerScale(t)

		fill := colorRightHand
		if f.Hand == score.HandLeft {
			fill = colorLeftHand
		}
		s.FillCircle(center, radius, fill)
		s.DrawText(strconv.Itoa(f.Finger), center, colorMarkerText)
	}
}

// DrawConfidenceHighlights marks low-confidence notes and the document's
// low-confidence measure regions with translucent boxes.
func DrawConfidenceHighlights(s RenderSurface, b *coord.Bridge, t geometry.AffineTransform, regions []score.LowConfidenceRegion) {
	inRegion := func(measure int) bool {
		for _, r := range regions {
			if measure >= r.StartMeasure && measure <= r.EndMeasure {
				return true
			}
		}
		return false
	}

	for _, n := range b.Notes() {
		low := n.Confidence > 0 && n.Confidence < confidenceCutoff
		if !low && !inRegion(n.Time.Measure) {
			continue
		}
		box := b.HighlightRect(n)
		if box.Width <= 0 || box.Height <= 0 {
			continue
		}
		drawn := t.TransformRect(box)
		s.FillRect(drawn, colorLowConfidence)
		s.StrokeRect(drawn, colorConfidenceEdge, 1)
	}
}

// DrawPlaybackHighlight draws the currently-sounding note's highlight. The
// box is mapped by transforming all four corners and drawing their
// axis-aligned bounds, so the painter stays correct under any affine view
// transform, not just scale+translate.
func DrawPlaybackHighlight(s RenderSurface, b *coord.Bridge, t geometry.AffineTransform, activeID string) {
	if activeID == "" {
		return
	}
	for _, n := range b.Notes() {
		if n.ID != activeID {
			continue
		}
		box := b.HighlightRect(n)
		if box.Width <= 0 || box.Height <= 0 {
			return
		}
		drawn := t.TransformRect(box)
		s.FillRect(drawn, colorActiveHighlight)
		s.StrokeRect(drawn, colorActiveEdge, 2)
		return
	}
}

// markerScale keeps marker radii proportional to the view's scale. The
// transform is uniform scale+translate today, so A carries the factor.
func markerScale(t geometry.AffineTransform) float64 {
	if t.A <= 0 {
		return 1
	}
	return t.A
}
