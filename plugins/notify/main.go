// Package main is a game hook that raises a desktop notification when the
// puzzle is solved. It uses AppleScript on macOS and notify-send elsewhere.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"
)

// Event is the game event read from stdin.
type Event struct {
	Type      string `json:"type"`
	Session   string `json:"session"`
	Discs     int    `json:"discs"`
	Moves     int    `json:"moves"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

// Response is written to stdout.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func main() {
	var ev Event
	if err := json.NewDecoder(os.Stdin).Decode(&ev); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode event: %v", err))
		return
	}

	title, body, ok := message(ev)
	if !ok {
		// Not an event we announce.
		writeSuccessResponse()
		return
	}

	if err := notify(title, body); err != nil {
		writeErrorResponse(fmt.Sprintf("notify failed: %v", err))
		return
	}
	writeSuccessResponse()
}

// message builds the notification text for ev.
func message(ev Event) (title, body string, ok bool) {
	if ev.Type != "won" {
		return "", "", false
	}

	elapsed := time.Duration(ev.ElapsedMs) * time.Millisecond
	body = fmt.Sprintf("Solved %d discs in %d moves (%s).", ev.Discs, ev.Moves, elapsed.Round(time.Second))
	if optimal := 1<<ev.Discs - 1; ev.Discs > 0 && ev.Moves == optimal {
		body += " A perfect game!"
	}
	return "You Won!", body, true
}

func notify(title, body string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", body, title)
		cmd = exec.Command("osascript", "-e", script)
	default:
		cmd = exec.Command("notify-send", title, body)
	}
	return cmd.Run()
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	writeResponse(Response{Success: true})
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	writeResponse(Response{Success: false, Error: errMsg})
}

// writeResponse encodes and writes a response to stdout.
func writeResponse(resp Response) {
	if err := json.NewEncoder(os.Stdout).Encode(resp); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode response: %v\n", err)
		os.Exit(1)
	}
}
