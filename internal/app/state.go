// Package app provides application state and events for the score viewer.
package app

import (
	"fmt"
	goimage "image"
	"image/png"
	"os"
	"sync"

	"score-viewer/internal/layout"
	"score-viewer/internal/persist"
	"score-viewer/internal/score"
)

// EventType identifies application events.
type EventType int

const (
	EventDocumentLoaded EventType = iota
	EventDocumentEdited
	EventPageChanged
	EventPlaybackTick
	EventPlaybackStopped
	EventPersistResult
)

// EventListener is called when an event occurs. Listeners run on the
// emitting goroutine; UI listeners must hop to the UI thread themselves.
type EventListener func(data interface{})

// State holds the viewer's document snapshot and view selection. All
// mutation happens through its methods under the mutex; the document itself
// is immutable, so readers holding a *score.Document never see a partial
// edit.
type State struct {
	mu sync.RWMutex

	document   *score.Document
	pageImages map[int]goimage.Image
	page       int

	position float64

	Layout  layout.Constants
	Persist *persist.Client

	listeners map[EventType][]EventListener
}

// NewState creates an empty viewer state.
func NewState() *State {
	return &State{
		Layout:     layout.DefaultConstants(),
		pageImages: make(map[int]goimage.Image),
		page:       1,
		listeners:  make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Document returns the current document snapshot, which may be nil before
// a job's artifacts are loaded.
func (s *State) Document() *score.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.document
}

// Page returns the displayed 1-indexed page.
func (s *State) Page() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

// Position returns the latest playback position in seconds.
func (s *State) Position() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.position
}

// PageImage returns the pre-rendered base image for a page, or nil.
func (s *State) PageImage(page int) goimage.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pageImages[page]
}

// LoadDocument loads a score document, replacing any previous one
// wholesale, and resets the view to page 1.
func (s *State) LoadDocument(path string) error {
	doc, err := score.Load(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.document = doc
	s.pageImages = make(map[int]goimage.Image)
	s.page = 1
	s.position = 0
	s.mu.Unlock()

	s.Emit(EventDocumentLoaded, doc)
	return nil
}

// LoadPageImage loads the pre-rendered PNG for a page.
func (s *State) LoadPageImage(page int, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening page image: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return fmt.Errorf("decoding page image: %w", err)
	}

	s.mu.Lock()
	s.pageImages[page] = img
	s.mu.Unlock()
	return nil
}

// SetPage switches the displayed page and emits EventPageChanged. The event
// fires even when the page number is unchanged so listeners can force a
// highlight invalidation.
func (s *State) SetPage(page int) {
	s.mu.Lock()
	if s.document != nil {
		if max := s.document.PageCount(); page > max {
			page = max
		}
	}
	if page < 1 {
		page = 1
	}
	s.page = page
	s.mu.Unlock()

	s.Emit(EventPageChanged, page)
}

// SetPosition records the latest playback position and emits
// EventPlaybackTick. A newer position simply overwrites an older one;
// listeners recompute from the latest value (last-writer-wins).
func (s *State) SetPosition(position float64) {
	s.mu.Lock()
	s.position = position
	s.mu.Unlock()

	s.Emit(EventPlaybackTick, position)
}

// ApplyFingeringEdit replaces the noted fingering copy-on-write, swaps the
// document snapshot, and fires the asynchronous persistence request. The
// in-memory edit stands whether or not persistence later succeeds.
func (s *State) ApplyFingeringEdit(noteID string, finger int, hand string) error {
	s.mu.Lock()
	doc := s.document
	if doc == nil {
		s.mu.Unlock()
		return fmt.Errorf("no document loaded")
	}
	edited, err := doc.WithFingering(noteID, finger, hand)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.document = edited
	client := s.Persist
	s.mu.Unlock()

	s.Emit(EventDocumentEdited, noteID)

	if client != nil {
		client.SaveFingering(persist.FingeringEdit{NoteID: noteID, Finger: finger, Hand: hand})
	}
	return nil
}
