// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"score-viewer/internal/app"
	"score-viewer/internal/coord"
	"score-viewer/internal/playback"
	"score-viewer/internal/score"
	"score-viewer/internal/version"
	"score-viewer/ui/canvas"
	"score-viewer/ui/panels"
	"score-viewer/ui/prefs"
)

const (
	prefKeyLastScore = "lastScore"
	prefKeyZoom      = "zoom"
)

// statusClearDelay is how long a transient status message stays visible.
const statusClearDelay = 5 * time.Second

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	prefs *prefs.Prefs

	canvas    *canvas.ScoreCanvas
	editPanel *panels.EditPanel
	infoPanel *panels.InfoPanel
	statusBar *widget.Label
	pageLabel *widget.Label
	posLabel  *widget.Label

	clock    *playback.Clock
	resolver *playback.Resolver
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Score Viewer")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
		clock:  playback.NewClock(),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.setupPlayback()
	mw.canvas.View().SetZoom(p.Float(prefKeyZoom, 1.0))
	mw.restoreLastScore()

	win.SetCloseIntercept(func() {
		mw.clock.Stop()
		p.SetFloat(prefKeyZoom, mw.canvas.View().Zoom())
		_ = p.Save()
		fyneApp.Quit()
	})

	return mw
}

// setupUI creates the main layout: panels on the left, canvas and
// transport in the center, status bar below.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewScoreCanvas(func(doc *score.Document, page int) *coord.Bridge {
		return coord.NewBridge(doc, page, mw.state.Layout)
	})
	mw.editPanel = panels.NewEditPanel(mw.state)
	mw.infoPanel = panels.NewInfoPanel(mw.state)
	mw.statusBar = widget.NewLabel("Ready")
	mw.pageLabel = widget.NewLabel("Page 1")
	mw.posLabel = widget.NewLabel("0.0s")

	mw.canvas.OnNoteTapped = func(n *score.Note) {
		mw.editPanel.SetNote(n)
	}
	mw.editPanel.OnSaved = func(noteID string) {
		mw.setStatus(fmt.Sprintf("Fingering for %s updated", noteID))
	}

	transport := container.NewHBox(
		widget.NewButton("Play", mw.onPlay),
		widget.NewButton("Pause", mw.onPause),
		widget.NewButton("Stop", mw.onStop),
		widget.NewSeparator(),
		mw.posLabel,
		widget.NewSeparator(),
		widget.NewButton("Prev Page", func() { mw.state.SetPage(mw.state.Page() - 1) }),
		mw.pageLabel,
		widget.NewButton("Next Page", func() { mw.state.SetPage(mw.state.Page() + 1) }),
	)

	canvasArea := container.NewBorder(transport, nil, nil, nil, mw.canvas)

	side := container.NewVBox(mw.infoPanel, widget.NewSeparator(), mw.editPanel)
	split := container.NewHSplit(side, canvasArea)
	split.SetOffset(0.25)

	content := container.NewBorder(nil, container.NewPadded(mw.statusBar), nil, nil, split)
	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1200, 800))
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Score...", mw.onOpenScore),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() { mw.canvas.View().ZoomIn(); mw.canvas.Refresh() }),
		fyne.NewMenuItem("Zoom Out", func() { mw.canvas.View().ZoomOut(); mw.canvas.Refresh() }),
		fyne.NewMenuItem("Actual Size", func() { mw.canvas.View().Reset(); mw.canvas.Refresh() }),
	)

	playbackMenu := fyne.NewMenu("Playback",
		fyne.NewMenuItem("Play", mw.onPlay),
		fyne.NewMenuItem("Pause", mw.onPause),
		fyne.NewMenuItem("Stop", mw.onStop),
		fyne.NewMenuItem("Rewind", func() { mw.clock.Seek() }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, playbackMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventDocumentLoaded, func(data interface{}) {
		doc := mw.state.Document()
		mw.canvas.SetDocument(doc)
		mw.canvas.SetPage(1, mw.state.PageImage(1))
		mw.rebuildResolver()
		mw.updatePageLabel()
		if doc.Metadata.Title != "" {
			mw.SetTitle("Score Viewer - " + doc.Metadata.Title)
		}
	})

	mw.state.On(app.EventDocumentEdited, func(interface{}) {
		// New document snapshot after a copy-on-write edit.
		mw.canvas.SetDocument(mw.state.Document())
		mw.rebuildResolver()
	})

	mw.state.On(app.EventPageChanged, func(interface{}) {
		page := mw.state.Page()
		mw.canvas.SetPage(page, mw.state.PageImage(page))
		mw.rebuildResolver()
		mw.updatePageLabel()
	})

	mw.state.On(app.EventPlaybackTick, func(data interface{}) {
		pos, ok := data.(float64)
		if !ok {
			return
		}
		mw.posLabel.SetText(fmt.Sprintf("%.1fs", pos))
		if mw.resolver != nil {
			mw.canvas.SetActiveNote(mw.resolver.Resolve(pos))
		}
	})

	mw.state.On(app.EventPersistResult, func(data interface{}) {
		if err, ok := data.(error); ok && err != nil {
			mw.setStatus(fmt.Sprintf("Saving fingering failed: %v (edit kept locally)", err))
		}
	})
}

// setupPlayback connects the clock's position stream to the state.
func (mw *MainWindow) setupPlayback() {
	mw.clock.OnTick = func(pos float64) {
		mw.state.SetPosition(pos)
	}
}

// rebuildResolver rebuilds the active-note resolver for the current
// (document, page) pair.
func (mw *MainWindow) rebuildResolver() {
	doc := mw.state.Document()
	if doc == nil {
		mw.resolver = nil
		return
	}
	mw.resolver = playback.NewResolver(doc, mw.state.Page())
}

func (mw *MainWindow) onPlay() {
	if mw.state.Document() == nil {
		mw.setStatus("No score loaded")
		return
	}
	mw.clock.Start()
}

func (mw *MainWindow) onPause() {
	mw.clock.Pause()
}

func (mw *MainWindow) onStop() {
	mw.clock.Stop()
	mw.state.SetPosition(0)
	mw.canvas.SetActiveNote("")
	mw.state.Emit(app.EventPlaybackStopped, nil)
}

// onOpenScore prompts for a score JSON and loads it along with any
// pre-rendered page images sitting next to it (page_<n>.png).
func (mw *MainWindow) onOpenScore() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()
		mw.loadScore(path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	fd.Show()
}

// loadScore loads the document and its page images.
func (mw *MainWindow) loadScore(path string) {
	if err := mw.state.LoadDocument(path); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.prefs.SetString(prefKeyLastScore, path)

	dir := filepath.Dir(path)
	doc := mw.state.Document()
	for page := 1; page <= doc.PageCount(); page++ {
		imgPath := filepath.Join(dir, fmt.Sprintf("page_%d.png", page))
		if err := mw.state.LoadPageImage(page, imgPath); err != nil {
			log.Printf("no base image for page %d: %v", page, err)
		}
	}
	// Re-deliver page 1 now that its base image is in.
	mw.state.SetPage(1)
	mw.setStatus("Loaded " + filepath.Base(path))
}

// restoreLastScore reopens the previously viewed score, if any.
func (mw *MainWindow) restoreLastScore() {
	if path := mw.prefs.String(prefKeyLastScore); path != "" {
		mw.loadScore(path)
	}
}

func (mw *MainWindow) updatePageLabel() {
	doc := mw.state.Document()
	total := 1
	if doc != nil {
		total = doc.PageCount()
	}
	mw.pageLabel.SetText(fmt.Sprintf("Page %d/%d", mw.state.Page(), total))
}

// setStatus shows a transient status message that clears itself.
func (mw *MainWindow) setStatus(msg string) {
	mw.statusBar.SetText(msg)
	time.AfterFunc(statusClearDelay, func() {
		if mw.statusBar.Text == msg {
			mw.statusBar.SetText("Ready")
		}
	})
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About",
		fmt.Sprintf("Score Viewer %s\nSymbolic score playback and fingering review", version.Version),
		mw.Window)
}
