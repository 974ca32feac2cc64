package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/pinchhanoi/internal/store"
)

// SettingsHandler reads and writes key/value preferences.
type SettingsHandler struct {
	store *store.Store
}

// NewSettingsHandler creates a new SettingsHandler with the given store.
func NewSettingsHandler(s *store.Store) *SettingsHandler {
	return &SettingsHandler{store: s}
}

type settingRequest struct {
	Value string `json:"value"`
}

type settingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ServeHTTP handles GET and PUT on /api/settings/{key}.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/api/settings")
	key = strings.Trim(key, "/")
	if key == "" || strings.Contains(key, "/") {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		value, err := h.store.Settings().Get(key)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Setting not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to get setting")
			return
		}
		writeJSON(w, http.StatusOK, settingResponse{Key: key, Value: value})

	case http.MethodPut:
		var req settingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if err := h.store.Settings().Set(key, req.Value); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save setting")
			return
		}
		writeJSON(w, http.StatusOK, settingResponse{Key: key, Value: req.Value})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
