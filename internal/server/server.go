// Package server exposes the running game over local HTTP: status, reset,
// results, an MJPEG view of the board and a WebSocket status feed.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ayusman/pinchhanoi/internal/server/api"
	"github.com/ayusman/pinchhanoi/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Game      api.Game
}

// Server represents the HTTP server for the game.
type Server struct {
	config Config
	mux    *http.ServeMux
	events *EventsHandler
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Game != nil {
		gameHandler := api.NewGameHandler(s.config.Game)
		s.mux.Handle("/api/game", gameHandler)
		s.mux.Handle("/api/game/", gameHandler)

		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Game))

		s.events = NewEventsHandler(s.config.Game)
		s.mux.Handle("/api/events", s.events)
	}

	if s.config.Store != nil {
		resultHandler := api.NewResultHandler(s.config.Store)
		s.mux.Handle("/api/results", resultHandler)
		s.mux.Handle("/api/results/", resultHandler)

		s.mux.Handle("/api/settings/", api.NewSettingsHandler(s.config.Store))
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// Close stops background broadcasting.
func (s *Server) Close() {
	if s.events != nil {
		s.events.Close()
	}
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		// MJPEG clients never go idle.
		if errors.Is(err, context.DeadlineExceeded) {
			return srv.Close()
		}
		return err
	}
	return nil
}
