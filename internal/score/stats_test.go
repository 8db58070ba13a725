package score

import (
	"math"
	"testing"
)

func statNote(id string, measure int, confidence float64, finger int) *Note {
	n := &Note{
		ID:         id,
		Time:       Temporal{Measure: measure},
		Spatial:    Spatial{StaffID: "staff_0", PageNumber: 1},
		Confidence: confidence,
	}
	if finger > 0 {
		n.Fingering = &Fingering{Finger: finger, Hand: HandRight, Confidence: 1}
	}
	return n
}

func TestComputeStats(t *testing.T) {
	doc := &Document{
		Notes: []*Note{
			statNote("a", 1, 0.8, 1),
			statNote("b", 1, 0.6, 0),
			statNote("c", 2, 1.0, 2),
			statNote("d", 2, 0, 0), // no recorded confidence
		},
	}

	s := ComputeStats(doc)
	if s.NoteCount != 4 {
		t.Fatalf("NoteCount = %d", s.NoteCount)
	}
	if s.AnnotatedNotes != 2 {
		t.Fatalf("AnnotatedNotes = %d, want 2", s.AnnotatedNotes)
	}
	if math.Abs(s.FingeringCoverage-0.5) > 1e-9 {
		t.Fatalf("FingeringCoverage = %g, want 0.5", s.FingeringCoverage)
	}
	if math.Abs(s.MeanConfidence-0.8) > 1e-9 {
		t.Fatalf("MeanConfidence = %g, want 0.8", s.MeanConfidence)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	s := ComputeStats(&Document{})
	if s.NoteCount != 0 || s.MeanConfidence != 0 || s.FingeringCoverage != 0 {
		t.Fatalf("empty stats = %+v", s)
	}
}

func TestLowConfidenceRegionsFromMetadata(t *testing.T) {
	doc := &Document{
		Metadata: Metadata{
			LowConfidenceRegions: []LowConfidenceRegion{
				{StartMeasure: 3, EndMeasure: 5, AverageConfidence: 0.4},
			},
		},
		Notes: []*Note{statNote("a", 1, 0.1, 0)},
	}

	regions := LowConfidenceRegions(doc)
	if len(regions) != 1 || regions[0].StartMeasure != 3 {
		t.Fatalf("metadata regions not passed through: %+v", regions)
	}
}

func TestLowConfidenceRegionsDerived(t *testing.T) {
	doc := &Document{
		Notes: []*Note{
			statNote("a", 1, 0.9, 0),
			statNote("b", 2, 0.5, 0), // low
			statNote("c", 3, 0.6, 0), // low, merges with measure 2
			statNote("d", 4, 0.95, 0),
			statNote("e", 6, 0.2, 0), // low, separate run
		},
	}

	regions := LowConfidenceRegions(doc)
	if len(regions) != 2 {
		t.Fatalf("got %d regions, want 2: %+v", len(regions), regions)
	}
	if regions[0].StartMeasure != 2 || regions[0].EndMeasure != 3 {
		t.Fatalf("first region = %+v, want measures 2-3", regions[0])
	}
	if regions[1].StartMeasure != 6 || regions[1].EndMeasure != 6 {
		t.Fatalf("second region = %+v, want measure 6", regions[1])
	}
	if regions[0].AverageConfidence >= lowConfidenceThreshold {
		t.Fatalf("region confidence %g not below threshold", regions[0].AverageConfidence)
	}
}

func TestLowConfidenceRegionsNoneWhenConfident(t *testing.T) {
	doc := &Document{
		Notes: []*Note{statNote("a", 1, 0.9, 0), statNote("b", 2, 0.85, 0)},
	}
	if regions := LowConfidenceRegions(doc); len(regions) != 0 {
		t.Fatalf("unexpected regions: %+v", regions)
	}
}
