package score

import (
	"gonum.org/v1/gonum/stat"
)

// lowConfidenceThreshold is the per-measure mean below which a measure run
// is reported as a low-confidence region when the document metadata does
// not supply regions of its own.
const lowConfidenceThreshold = 0.7

// Stats summarizes document confidence and fingering coverage for the side
// panel and the scoreinfo command.
type Stats struct {
	NoteCount         int
	MeanConfidence    float64
	FingeringCoverage float64
	AnnotatedNotes    int
}

// ComputeStats derives summary statistics over all notes. Notes without a
// recorded detection confidence are excluded from the mean.
func ComputeStats(d *Document) Stats {
	s := Stats{NoteCount: len(d.Notes)}

	var conf []float64
	for _, n := range d.Notes {
		if n.Confidence > 0 {
			conf = append(conf, n.Confidence)
		}
		if n.Fingering != nil && n.Fingering.Finger > 0 {
			s.AnnotatedNotes++
		}
	}
	if len(conf) > 0 {
		s.MeanConfidence = stat.Mean(conf, nil)
	}
	if s.NoteCount > 0 {
		s.FingeringCoverage = float64(s.AnnotatedNotes) / float64(s.NoteCount)
	}
	return s
}

// LowConfidenceRegions returns the document's metadata regions when
// present, otherwise derives them: maximal runs of consecutive measures
// whose mean detection confidence falls below the threshold.
func LowConfidenceRegions(d *Document) []LowConfidenceRegion {
	if len(d.Metadata.LowConfidenceRegions) > 0 {
		return d.Metadata.LowConfidenceRegions
	}

	byMeasure := make(map[int][]float64)
	maxMeasure := 0
	for _, n := range d.Notes {
		if n.Confidence <= 0 {
			continue
		}
		m := n.Time.Measure
		byMeasure[m] = append(byMeasure[m], n.Confidence)
		if m > maxMeasure {
			maxMeasure = m
		}
	}

	var regions []LowConfidenceRegion
	var run []float64
	runStart := 0
	flush := func(end int) {
		if runStart == 0 {
			return
		}
		regions = append(regions, LowConfidenceRegion{
			StartMeasure:      runStart,
			EndMeasure:        end,
			AverageConfidence: stat.Mean(run, nil),
		})
		run = nil
		runStart = 0
	}

	for m := 1; m <= maxMeasure; m++ {
		conf := byMeasure[m]
		if len(conf) > 0 && stat.Mean(conf, nil) < lowConfidenceThreshold {
			if runStart == 0 {
				runStart = m
			}
			run = append(run, conf...)
			continue
		}
		flush(m - 1)
	}
	flush(maxMeasure)
	return regions
}
