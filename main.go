// Package main provides the entry point for the score viewer application.
package main

import (
	"log"
	"os"

	fyneapp "fyne.io/fyne/v2/app"

	"score-viewer/internal/app"
	"score-viewer/internal/persist"
	"score-viewer/internal/version"
	"score-viewer/ui/mainwindow"
	"score-viewer/ui/prefs"
)

const (
	appTitle = "Score Viewer"

	// defaultStoreURL is the artifact store fingering edits are posted to.
	// Overridable with SCORE_STORE_URL.
	defaultStoreURL = "http://localhost:8000"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	fyneApp := fyneapp.NewWithID("score-viewer")
	fyneApp.Settings().SetTheme(&app.ViewerTheme{})

	state := app.NewState()
	appPrefs := prefs.Load()

	storeURL := os.Getenv("SCORE_STORE_URL")
	if storeURL == "" {
		storeURL = defaultStoreURL
	}
	jobID := os.Getenv("SCORE_JOB_ID")
	client := persist.NewClient(storeURL, jobID)
	client.OnResult = func(noteID string, err error) {
		state.Emit(app.EventPersistResult, err)
	}
	state.Persist = client

	win := mainwindow.New(fyneApp, state, appPrefs)
	win.SetTitle(appTitle)

	win.ShowAndRun()
}
