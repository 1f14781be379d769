package api

import (
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WSMessage is the envelope pushed to connected dashboards.
type WSMessage struct {
	Type    string      `json:"type"`              // status_change / deploy_result
	Payload interface{} `json:"payload,omitempty"` // arbitrary JSON
}

// WSHub fans lifecycle events out to dashboard clients so open review
// sessions see transitions as they happen.
type WSHub struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	clients  map[string]*websocket.Conn // client id -> conn
}

func NewWSHub() *WSHub {
	return &WSHub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: map[string]*websocket.Conn{},
	}
}

// HandleUIWS upgrades and registers a dashboard client connection.
func (h *WSHub) HandleUIWS(w http.ResponseWriter, r *http.Request) {
	c, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	id := uuid.NewString()
	h.mu.Lock()
	h.clients[id] = c
	h.mu.Unlock()
	log.Printf("dashboard ws connected: %s", id)
	go h.readLoop(id, c)
}

// Broadcast sends msg to every connected client. Safe on a nil hub.
func (h *WSHub) Broadcast(msg WSMessage) {
	if h == nil {
		return
	}
	h.mu.RLock()
	conns := make(map[string]*websocket.Conn, len(h.clients))
	for id, c := range h.clients {
		conns[id] = c
	}
	h.mu.RUnlock()
	for id, c := range conns {
		if err := c.WriteJSON(msg); err != nil {
			log.Printf("ws send to %s failed: %v", id, err)
		}
	}
}

// readLoop drains the connection until the client goes away; the UI
// never sends anything we act on.
func (h *WSHub) readLoop(id string, c *websocket.Conn) {
	defer func() {
		_ = c.Close()
		h.mu.Lock()
		delete(h.clients, id)
		h.mu.Unlock()
		log.Printf("dashboard ws disconnected: %s", id)
	}()
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}
