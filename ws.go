package main

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/v3/websocket"
	"github.com/gofiber/fiber/v3"
)

// wsHub manages gallery WebSocket connections and pushes change events so
// clients don't have to poll /images aggressively. The socket is advisory:
// the listing endpoint stays the source of truth.
type wsHub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
}

func newWSHub() *wsHub {
	return &wsHub{
		clients: make(map[*websocket.Conn]bool),
	}
}

func (h *wsHub) register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	log.Printf("[ws] client connected (%d total)", len(h.clients))
}

func (h *wsHub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	log.Printf("[ws] client disconnected (%d remaining)", len(h.clients))
}

// broadcast sends a JSON message to all connected clients.
// Failed sends cause the client to be removed.
func (h *wsHub) broadcast(msg []byte) {
	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	var failed []*websocket.Conn
	for _, c := range clients {
		if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("[ws] write failed, removing client: %v", err)
			failed = append(failed, c)
		}
	}

	if len(failed) > 0 {
		h.mu.Lock()
		for _, c := range failed {
			delete(h.clients, c)
			c.Close()
		}
		h.mu.Unlock()
	}
}

// broadcastUpdate announces one gallery mutation to every connected client.
// action is "added" or "removed".
func (h *wsHub) broadcastUpdate(action, name string, kind mediaKind) {
	msg, _ := json.Marshal(fiber.Map{
		"type":   "update",
		"action": action,
		"name":   name,
		"kind":   string(kind),
	})
	h.broadcast(msg)
}

// handleWebSocket serves gallery connections. No authentication: the gallery
// is public. Sends the full listing on connect, then pushes updates.
//
// Messages from server (push):
//
//	Initial: { "type": "sync", "items": [{ "name": "...", "type": "image"|"video" }] }
//	Update:  { "type": "update", "action": "added"|"removed", "name": "...", "kind": "..." }
//
// Client can send:
//
//	Ping: { "type": "ping" } -> { "type": "pong" }
func (s *server) handleWebSocket(c *websocket.Conn) {
	s.hub.register(c)
	defer s.hub.unregister(c)

	items, err := s.listMedia()
	if err != nil {
		log.Printf("[ws] failed to build initial sync: %v", err)
		items = nil
	}
	initMsg, _ := json.Marshal(fiber.Map{
		"type":  "sync",
		"items": items,
	})
	if err := c.WriteMessage(websocket.TextMessage, initMsg); err != nil {
		log.Printf("[ws] failed to send initial sync: %v", err)
		return
	}

	// read loop: keeps the connection alive and answers pings
	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			break
		}

		var clientMsg struct {
			Type string `json:"type"`
		}
		if json.Unmarshal(msg, &clientMsg) != nil || clientMsg.Type != "ping" {
			continue
		}

		reply, _ := json.Marshal(fiber.Map{"type": "pong"})
		if err := c.WriteMessage(websocket.TextMessage, reply); err != nil {
			break
		}
	}
}
