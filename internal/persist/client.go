// Package persist posts fingering edits to the artifact store.
//
// Saves are fire-and-forget: the edit is applied optimistically in memory
// before the request is sent, and a failed save never blocks input or rolls
// the in-memory state back. Edits are idempotent per note id, so a late
// completion after the viewer has moved on is harmless.
package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

const requestTimeout = 10 * time.Second

// FingeringEdit is the wire form of one fingering change.
type FingeringEdit struct {
	NoteID string `json:"note_id"`
	Finger int    `json:"finger"`
	Hand   string `json:"hand"`
}

// Client posts edits to the backend job store.
type Client struct {
	baseURL string
	jobID   string
	http    *http.Client

	// OnResult, when set, is called with the note id and outcome of each
	// completed save. The UI uses it to surface failures as a transient
	// notification; nothing else reacts to it.
	OnResult func(noteID string, err error)
}

// NewClient creates a client for the given artifact-store base URL and job.
func NewClient(baseURL, jobID string) *Client {
	return &Client{
		baseURL: baseURL,
		jobID:   jobID,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// SaveFingering sends the edit on a background goroutine and returns
// immediately. The outcome is logged and reported through OnResult.
func (c *Client) SaveFingering(edit FingeringEdit) {
	go func() {
		err := c.post(edit)
		if err != nil {
			log.Printf("persist: fingering save for note %s failed: %v", edit.NoteID, err)
		} else {
			log.Printf("persist: fingering for note %s saved", edit.NoteID)
		}
		if c.OnResult != nil {
			c.OnResult(edit.NoteID, err)
		}
	}()
}

func (c *Client) post(edit FingeringEdit) error {
	body, err := json.Marshal(edit)
	if err != nil {
		return fmt.Errorf("encoding edit: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/jobs/%s/fingering", c.baseURL, c.jobID)
	resp, err := c.http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("posting edit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("artifact store returned %s", resp.Status)
	}
	return nil
}
