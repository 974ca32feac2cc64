// Package api provides the HTTP API handlers for the game server.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/pinchhanoi/internal/app"
)

// Game is the running game as seen by HTTP handlers.
type Game interface {
	Snapshot() app.Status
	RequestReset()
	LatestJPEG() ([]byte, bool)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
