// Command scoreinfo loads a score document headless and prints its layout
// and confidence summary. Useful for inspecting job artifacts without the
// viewer.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"score-viewer/internal/coord"
	"score-viewer/internal/layout"
	"score-viewer/internal/score"
)

func main() {
	log.SetFlags(0)

	pageFlag := flag.Int("page", 0, "print per-note geometry for this page")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: scoreinfo [-page N] <score.json>\n")
		os.Exit(2)
	}

	doc, err := score.Load(flag.Arg(0))
	if err != nil {
		log.Fatalf("scoreinfo: %v", err)
	}

	stats := score.ComputeStats(doc)
	fmt.Printf("Title:     %s\n", orUntitled(doc.Metadata.Title))
	fmt.Printf("Composer:  %s\n", orUntitled(doc.Metadata.Composer))
	fmt.Printf("Pages:     %d\n", doc.PageCount())
	fmt.Printf("Staves:    %d (grand staff: %v)\n", len(doc.Staves), doc.IsGrandStaff())
	fmt.Printf("Notes:     %d\n", stats.NoteCount)
	fmt.Printf("Mean detection confidence: %.2f\n", stats.MeanConfidence)
	fmt.Printf("Fingering coverage:        %.0f%% (%d notes)\n",
		stats.FingeringCoverage*100, stats.AnnotatedNotes)

	for _, r := range score.LowConfidenceRegions(doc) {
		fmt.Printf("Low confidence: measures %d-%d (%.2f)\n",
			r.StartMeasure, r.EndMeasure, r.AverageConfidence)
	}

	if *pageFlag > 0 {
		printPage(doc, *pageFlag)
	}
}

func printPage(doc *score.Document, page int) {
	bridge := coord.NewBridge(doc, page, layout.DefaultConstants())
	size := bridge.CanvasSize()
	fmt.Printf("\nPage %d: canvas %.0fx%.0f, %d notes\n", page, size.Width, size.Height, len(bridge.Notes()))
	for _, n := range bridge.Notes() {
		box := bridge.NoteBoundingBox(n)
		fmt.Printf("  %-12s m%d b%-4g onset %6.2fs  box (%.1f, %.1f) %gx%g\n",
			n.ID, n.Time.Measure, n.Time.Beat, n.Time.OnsetSeconds,
			box.X, box.Y, box.Width, box.Height)
	}
}

func orUntitled(s string) string {
	if s == "" {
		return "(unknown)"
	}
	return s
}
