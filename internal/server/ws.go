package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/pinchhanoi/internal/app"
	"github.com/ayusman/pinchhanoi/internal/server/api"
)

const (
	// eventsPoll is how often the game status is checked for changes.
	eventsPoll = 66 * time.Millisecond
	// eventsHeartbeat forces a push so clients see the timer advance.
	eventsHeartbeat = time.Second
	writeWait       = time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// StatusEvent is one message on the events feed.
type StatusEvent struct {
	Type      string     `json:"type"`
	Status    app.Status `json:"status"`
	Timestamp int64      `json:"timestamp"`
}

// EventsHandler pushes game status to WebSocket clients whenever it
// changes, and at least once a second.
type EventsHandler struct {
	game    api.Game
	clients map[*websocket.Conn]bool // true until the first push
	mu      sync.Mutex
	done    chan struct{}
	once    sync.Once
}

// NewEventsHandler creates a new EventsHandler and starts broadcasting.
func NewEventsHandler(g api.Game) *EventsHandler {
	h := &EventsHandler{
		game:    g,
		clients: make(map[*websocket.Conn]bool),
		done:    make(chan struct{}),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Clients returns the number of connected clients.
func (h *EventsHandler) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close stops broadcasting and disconnects every client.
func (h *EventsHandler) Close() {
	h.once.Do(func() {
		close(h.done)
		h.mu.Lock()
		for conn := range h.clients {
			conn.Close()
		}
		h.mu.Unlock()
	})
}

// broadcast sends the game status to connected clients.
func (h *EventsHandler) broadcast() {
	ticker := time.NewTicker(eventsPoll)
	defer ticker.Stop()

	var (
		lastRevision uint64
		lastPush     time.Time
		pushed       bool
	)

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
		}

		h.mu.Lock()
		if len(h.clients) == 0 {
			h.mu.Unlock()
			continue
		}

		st := h.game.Snapshot()
		changed := !pushed || st.Revision != lastRevision || time.Since(lastPush) >= eventsHeartbeat

		msg, err := json.Marshal(StatusEvent{
			Type:      "status",
			Status:    st,
			Timestamp: time.Now().UnixMilli(),
		})
		if err != nil {
			h.mu.Unlock()
			log.Printf("events: encode status: %v", err)
			continue
		}

		sent := false
		for conn, fresh := range h.clients {
			if !changed && !fresh {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				conn.Close()
				delete(h.clients, conn)
				continue
			}
			h.clients[conn] = false
			sent = true
		}
		h.mu.Unlock()

		if changed && sent {
			lastRevision = st.Revision
			lastPush = time.Now()
			pushed = true
		}
	}
}
