package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"social-ledger/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// snapshotEvent is the wire format pushed to stream subscribers
type snapshotEvent struct {
	PostID    uuid.UUID            `json:"post_id"`
	Timestamp time.Time            `json:"timestamp"`
	Metrics   models.MetricsReport `json:"metrics"`
}

// MetricsHub fans committed metric snapshots out to live subscribers.
// It implements services.SnapshotSink; slow subscribers are dropped rather
// than allowed to block the reporting path.
type MetricsHub struct {
	mu          sync.RWMutex
	subscribers map[chan []byte]struct{}
}

// NewMetricsHub creates a new metrics hub
func NewMetricsHub() *MetricsHub {
	return &MetricsHub{
		subscribers: make(map[chan []byte]struct{}),
	}
}

// Publish broadcasts one committed snapshot to every subscriber
func (h *MetricsHub) Publish(postID uuid.UUID, snapshot models.MetricsSnapshot) {
	payload, err := json.Marshal(snapshotEvent{
		PostID:    postID,
		Timestamp: snapshot.Timestamp,
		Metrics:   snapshot.Metrics,
	})
	if err != nil {
		log.Printf("Failed to encode metrics snapshot for post %s: %v", postID, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subscribers {
		select {
		case ch <- payload:
		default:
			// subscriber is not keeping up; skip this event for it
		}
	}
}

// Subscribe registers a new subscriber and returns its event channel plus a
// cancel function that must be called when the subscriber goes away.
func (h *MetricsHub) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, 16)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subscribers, ch)
		h.mu.Unlock()
	}
	return ch, cancel
}

// SubscriberCount returns the number of connected subscribers
func (h *MetricsHub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// StreamHandler bridges the hub onto websocket connections
type StreamHandler struct {
	hub      *MetricsHub
	upgrader websocket.Upgrader
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(hub *MetricsHub) *StreamHandler {
	return &StreamHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS handles GET /ws/metrics
func (h *StreamHandler) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade metrics stream connection: %v", err)
		return
	}

	events, cancel := h.hub.Subscribe()
	defer cancel()
	defer conn.Close()

	// Drain client frames so pings and close messages are processed
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case payload, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}
