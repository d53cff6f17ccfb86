package events

import (
	"encoding/json"
	"io"
	"log"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Event types published by the dashboard
const (
	DatasetLoaded   = "dataset_loaded"
	IngestionFailed = "ingestion_failed"
	PlotRendered    = "plot_rendered"
	PlotSkipped     = "plot_skipped"
)

// Event is one dashboard activity notification for a session
type Event struct {
	SessionID string                 `json:"session_id"`
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Hub fans dashboard events out to the Server-Sent Events streams open for
// each session. Subscriptions change under the lock so an Unsubscribe always
// sees the Subscribe that preceded it.
type Hub struct {
	clients   map[string]map[chan Event]bool
	clientsMu sync.RWMutex
	broadcast chan Event
	keepAlive time.Duration
}

// NewHub creates a hub and starts its dispatch loop
func NewHub() *Hub {
	hub := &Hub{
		clients:   make(map[string]map[chan Event]bool),
		broadcast: make(chan Event, 100),
		keepAlive: 30 * time.Second,
	}

	go hub.run()
	return hub
}

func (h *Hub) run() {
	for event := range h.broadcast {
		h.clientsMu.RLock()
		for ch := range h.clients[event.SessionID] {
			select {
			case ch <- event:
			default:
				log.Printf("[Events] Client channel full for session %s, skipping %s", event.SessionID, event.Type)
			}
		}
		h.clientsMu.RUnlock()
	}
}

// Publish queues an event for the session's listeners. It never blocks.
func (h *Hub) Publish(sessionID, eventType string, data map[string]interface{}) {
	event := Event{SessionID: sessionID, Type: eventType, Data: data, Timestamp: time.Now()}
	select {
	case h.broadcast <- event:
	default:
		log.Printf("[Events] Broadcast channel full, dropping %s", eventType)
	}
}

// Subscribe opens a buffered stream of the session's events
func (h *Hub) Subscribe(sessionID string) <-chan Event {
	return h.subscribe(sessionID)
}

func (h *Hub) subscribe(sessionID string) chan Event {
	ch := make(chan Event, 10)
	h.clientsMu.Lock()
	if h.clients[sessionID] == nil {
		h.clients[sessionID] = make(map[chan Event]bool)
	}
	h.clients[sessionID][ch] = true
	h.clientsMu.Unlock()
	return ch
}

// Unsubscribe closes a stream returned by Subscribe. Unknown streams are
// ignored.
func (h *Hub) Unsubscribe(sessionID string, ch <-chan Event) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for c := range h.clients[sessionID] {
		if (<-chan Event)(c) == ch {
			h.remove(sessionID, c)
			return
		}
	}
}

func (h *Hub) unsubscribe(sessionID string, ch chan Event) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	if h.clients[sessionID][ch] {
		h.remove(sessionID, ch)
	}
}

// remove must be called with clientsMu held
func (h *Hub) remove(sessionID string, ch chan Event) {
	clients := h.clients[sessionID]
	delete(clients, ch)
	close(ch)
	if len(clients) == 0 {
		delete(h.clients, sessionID)
	}
}

// ClientCount returns the number of open streams for a session
func (h *Hub) ClientCount(sessionID string) int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients[sessionID])
}

// Stream serves the session's events as Server-Sent Events until the client
// goes away.
func (h *Hub) Stream(c *gin.Context, sessionID string) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ch := h.subscribe(sessionID)
	defer h.unsubscribe(sessionID, ch)

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-ch:
			if !ok {
				return false
			}
			payload, err := json.Marshal(event)
			if err != nil {
				log.Printf("[Events] Failed to marshal event: %v", err)
				return true
			}
			c.SSEvent(event.Type, string(payload))
			return true
		case <-time.After(h.keepAlive):
			c.SSEvent("ping", `{"status":"alive"}`)
			return true
		case <-ctx.Done():
			return false
		}
	})
}
