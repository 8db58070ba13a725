package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"score-viewer/internal/app"
	"score-viewer/internal/score"
)

// InfoPanel shows document metadata and confidence statistics for the
// loaded score.
type InfoPanel struct {
	widget.BaseWidget

	state   *app.State
	title   *widget.Label
	details *widget.Label
	content *fyne.Container
}

// NewInfoPanel creates the panel and subscribes it to document events.
func NewInfoPanel(state *app.State) *InfoPanel {
	p := &InfoPanel{state: state}
	p.title = widget.NewLabel("No score loaded")
	p.title.TextStyle = fyne.TextStyle{Bold: true}
	p.details = widget.NewLabel("")
	p.details.Wrapping = fyne.TextWrapWord
	p.content = container.NewVBox(p.title, p.details)

	state.On(app.EventDocumentLoaded, func(interface{}) { p.update() })
	state.On(app.EventDocumentEdited, func(interface{}) { p.update() })

	p.ExtendBaseWidget(p)
	return p
}

func (p *InfoPanel) update() {
	doc := p.state.Document()
	if doc == nil {
		p.title.SetText("No score loaded")
		p.details.SetText("")
		return
	}

	title := doc.Metadata.Title
	if title == "" {
		title = "Untitled score"
	}
	if doc.Metadata.Composer != "" {
		title = fmt.Sprintf("%s (%s)", title, doc.Metadata.Composer)
	}
	p.title.SetText(title)

	stats := score.ComputeStats(doc)
	text := fmt.Sprintf("%d notes on %d pages\n", stats.NoteCount, doc.PageCount())
	if stats.MeanConfidence > 0 {
		text += fmt.Sprintf("Detection confidence: %.0f%%\n", stats.MeanConfidence*100)
	}
	text += fmt.Sprintf("Fingering coverage: %.0f%% (%d annotated)",
		stats.FingeringCoverage*100, stats.AnnotatedNotes)
	if regions := score.LowConfidenceRegions(doc); len(regions) > 0 {
		text += fmt.Sprintf("\n%d low-confidence region(s)", len(regions))
	}
	p.details.SetText(text)
}

// CreateRenderer implements fyne.Widget.
func (p *InfoPanel) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.content)
}
