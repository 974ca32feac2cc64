package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/pinchhanoi/internal/hanoi"
	"github.com/ayusman/pinchhanoi/internal/store"
)

// ResultHandler handles HTTP requests for finished game results.
type ResultHandler struct {
	store *store.Store
}

// NewResultHandler creates a new ResultHandler with the given store.
func NewResultHandler(s *store.Store) *ResultHandler {
	return &ResultHandler{store: s}
}

// ServeHTTP routes /api/results, /api/results/best and /api/results/{id}.
func (h *ResultHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/results")
	path = strings.TrimPrefix(path, "/")

	switch {
	case path == "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)

	case path == "best":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.best(w, r)

	default:
		switch r.Method {
		case http.MethodGet:
			h.get(w, path)
		case http.MethodDelete:
			h.delete(w, path)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

type resultResponse struct {
	ID         string `json:"id"`
	Discs      int    `json:"discs"`
	Moves      int    `json:"moves"`
	Optimal    int    `json:"optimal"`
	DurationMs int64  `json:"duration_ms"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at"`
}

type listResultsResponse struct {
	Results []resultResponse `json:"results"`
	Total   int              `json:"total"`
}

func toResultResponse(res *store.Result) resultResponse {
	return resultResponse{
		ID:         res.ID,
		Discs:      res.Discs,
		Moves:      res.Moves,
		Optimal:    1<<res.Discs - 1,
		DurationMs: res.Duration.Milliseconds(),
		StartedAt:  res.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt: res.FinishedAt.UTC().Format(time.RFC3339),
	}
}

// positiveQuery parses a positive integer query parameter, returning def
// when it is absent.
func positiveQuery(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// list handles GET /api/results.
func (h *ResultHandler) list(w http.ResponseWriter, r *http.Request) {
	limit, ok := positiveQuery(r, "limit", 50)
	if !ok {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	results, err := h.store.Results().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list results")
		return
	}
	total, err := h.store.Results().Count()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count results")
		return
	}

	response := listResultsResponse{
		Results: make([]resultResponse, 0, len(results)),
		Total:   total,
	}
	for _, res := range results {
		response.Results = append(response.Results, toResultResponse(res))
	}

	writeJSON(w, http.StatusOK, response)
}

// best handles GET /api/results/best.
func (h *ResultHandler) best(w http.ResponseWriter, r *http.Request) {
	discs, ok := positiveQuery(r, "discs", hanoi.DefaultDiscs)
	if !ok {
		writeError(w, http.StatusBadRequest, "discs must be a positive integer")
		return
	}

	res, err := h.store.Results().Best(discs)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No results for this disc count")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get best result")
		return
	}

	writeJSON(w, http.StatusOK, toResultResponse(res))
}

// get handles GET /api/results/{id}.
func (h *ResultHandler) get(w http.ResponseWriter, id string) {
	res, err := h.store.Results().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Result not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get result")
		return
	}

	writeJSON(w, http.StatusOK, toResultResponse(res))
}

// delete handles DELETE /api/results/{id}.
func (h *ResultHandler) delete(w http.ResponseWriter, id string) {
	if err := h.store.Results().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Result not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete result")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
