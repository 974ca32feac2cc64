// Package hook runs external executables in response to game events.
//
// A hook lives in its own directory under the hooks directory and is
// described by a hook.json manifest naming the executable and the event
// types it subscribes to. The executable receives one JSON Event on stdin
// and answers with one JSON Response on stdout.
package hook

import "time"

// EventType names a game event delivered to hooks.
type EventType string

const (
	EventMove  EventType = "move"
	EventWon   EventType = "won"
	EventReset EventType = "reset"
)

// Manifest describes a hook and the events it wants.
type Manifest struct {
	Name        string      `json:"name"`
	Version     string      `json:"version"`
	Description string      `json:"description"`
	Executable  string      `json:"executable"`
	Events      []EventType `json:"events"`
}

// Subscribes reports whether the manifest lists t.
func (m Manifest) Subscribes(t EventType) bool {
	for _, e := range m.Events {
		if e == t {
			return true
		}
	}
	return false
}

// Event is sent to a hook on stdin.
type Event struct {
	Type      EventType `json:"type"`
	Session   string    `json:"session"`
	Discs     int       `json:"discs"`
	Moves     int       `json:"moves"`
	ElapsedMs int64     `json:"elapsed_ms"`
	Timestamp time.Time `json:"timestamp"`
}

// Response is read from a hook's stdout.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Hook is a discovered hook with its manifest and location.
type Hook struct {
	Manifest   Manifest
	Path       string
	Executable string
}
