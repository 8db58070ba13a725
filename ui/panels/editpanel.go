// Package panels provides the viewer's side panels: the fingering edit
// surface and the document info panel.
package panels

import (
	"fmt"
	"sort"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"score-viewer/internal/app"
	"score-viewer/internal/score"
)

// fingerOptions are the selectable finger values; 0 clears the fingering.
var fingerOptions = []string{"0 (none)", "1", "2", "3", "4", "5"}

// EditPanel is the edit surface opened when a note is tapped. It shows the
// note's current finger and hand plus the model's ranked alternatives, and
// applies an optimistic copy-on-write edit on save.
type EditPanel struct {
	widget.BaseWidget

	state *app.State
	note  *score.Note

	header       *widget.Label
	fingerSelect *widget.Select
	handSelect   *widget.Select
	alternatives *widget.Label
	saveButton   *widget.Button
	content      *fyne.Container

	// OnSaved is called after a successful in-memory edit, before the
	// asynchronous persistence request completes.
	OnSaved func(noteID string)
}

// NewEditPanel creates the panel in its empty (no note selected) state.
func NewEditPanel(state *app.State) *EditPanel {
	p := &EditPanel{state: state}

	p.header = widget.NewLabel("Tap a note to edit its fingering")
	p.fingerSelect = widget.NewSelect(fingerOptions, nil)
	p.handSelect = widget.NewSelect([]string{score.HandRight, score.HandLeft}, nil)
	p.alternatives = widget.NewLabel("")
	p.alternatives.Wrapping = fyne.TextWrapWord
	p.saveButton = widget.NewButton("Save", p.save)
	p.saveButton.Disable()

	p.content = container.NewVBox(
		p.header,
		widget.NewForm(
			widget.NewFormItem("Finger", p.fingerSelect),
			widget.NewFormItem("Hand", p.handSelect),
		),
		p.alternatives,
		p.saveButton,
	)

	p.ExtendBaseWidget(p)
	return p
}

// SetNote populates the panel for the tapped note.
func (p *EditPanel) SetNote(n *score.Note) {
	p.note = n
	if n == nil {
		p.header.SetText("Tap a note to edit its fingering")
		p.alternatives.SetText("")
		p.saveButton.Disable()
		p.Refresh()
		return
	}

	p.header.SetText(fmt.Sprintf("Note %s  (measure %d, beat %g)", n.ID, n.Time.Measure, n.Time.Beat))

	finger := 0
	hand := score.HandRight
	if n.Fingering != nil {
		finger = n.Fingering.Finger
		hand = n.Fingering.Hand
	}
	p.fingerSelect.SetSelectedIndex(finger)
	p.handSelect.SetSelected(hand)
	p.alternatives.SetText(formatAlternatives(n.Fingering))
	p.saveButton.Enable()
	p.Refresh()
}

// Note returns the note being edited, or nil.
func (p *EditPanel) Note() *score.Note {
	return p.note
}

// save applies the edit optimistically and fires the persistence request.
func (p *EditPanel) save() {
	if p.note == nil {
		return
	}
	finger := p.fingerSelect.SelectedIndex()
	if finger < 0 {
		finger = 0
	}
	hand := p.handSelect.Selected
	if hand == "" {
		hand = score.HandRight
	}

	noteID := p.note.ID
	if err := p.state.ApplyFingeringEdit(noteID, finger, hand); err != nil {
		p.header.SetText(fmt.Sprintf("Edit failed: %v", err))
		return
	}
	if p.OnSaved != nil {
		p.OnSaved(noteID)
	}
}

// formatAlternatives renders ranked alternatives, best first.
func formatAlternatives(f *score.Fingering) string {
	if f == nil || len(f.Alternatives) == 0 {
		return ""
	}
	alts := make([]score.FingeringAlternative, len(f.Alternatives))
	copy(alts, f.Alternatives)
	sort.SliceStable(alts, func(i, j int) bool {
		return alts[i].Confidence > alts[j].Confidence
	})

	text := "Alternatives: "
	for i, a := range alts {
		if i > 0 {
			text += ", "
		}
		text += strconv.Itoa(a.Finger) + fmt.Sprintf(" (%.0f%%)", a.Confidence*100)
	}
	return text
}

// CreateRenderer implements fyne.Widget.
func (p *EditPanel) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.content)
}
