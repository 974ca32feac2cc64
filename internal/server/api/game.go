package api

import (
	"net/http"
	"strings"
)

// GameHandler serves the live game status and accepts reset requests.
type GameHandler struct {
	game Game
}

// NewGameHandler creates a new GameHandler for g.
func NewGameHandler(g Game) *GameHandler {
	return &GameHandler{game: g}
}

// ServeHTTP routes /api/game and /api/game/reset.
func (h *GameHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/game")
	path = strings.Trim(path, "/")

	switch path {
	case "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, h.game.Snapshot())

	case "reset":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		// The frame loop applies the reset on its next frame.
		h.game.RequestReset()
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "reset requested"})

	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}
