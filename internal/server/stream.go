package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ayusman/pinchhanoi/internal/server/api"
)

// streamInterval paces the MJPEG stream at roughly 15 FPS.
const streamInterval = 66 * time.Millisecond

// StreamHandler serves the composed game frames as MJPEG.
type StreamHandler struct {
	game api.Game
}

// NewStreamHandler creates a new StreamHandler over g.
func NewStreamHandler(g api.Game) *StreamHandler {
	return &StreamHandler{game: g}
}

// ServeHTTP streams MJPEG frames until the client goes away.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	var last []byte
	for {
		if data, ok := h.game.LatestJPEG(); ok && !sameFrame(data, last) {
			if err := writePart(w, data); err != nil {
				return
			}
			last = data
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

// sameFrame reports whether a and b are the same published buffer. Frames
// are replaced, never modified, so identity is enough.
func sameFrame(a, b []byte) bool {
	return len(a) == len(b) && len(a) > 0 && &a[0] == &b[0]
}

func writePart(w http.ResponseWriter, data []byte) error {
	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\r\n"); err != nil {
		return err
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}
