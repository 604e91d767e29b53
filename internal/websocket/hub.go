package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains the set of connected dashboard clients and broadcasts pass
// reports and other operational events to them.
type Hub struct {
	// Registered clients map: ClientID -> Client
	clients map[string]*Client

	// Register requests
	register chan *Client

	// Unregister requests
	unregister chan *Client

	// Outbound broadcast messages
	broadcast chan []byte

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		clients:    make(map[string]*Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[client.ID]; ok {
				close(old.send)
			}
			h.clients[client.ID] = client
			h.mu.Unlock()
			log.Printf("🖥️ Dashboard connected: %s", client.ID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
				log.Printf("📴 Dashboard disconnected: %s", client.ID)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Buffer full or client dead; drop for this client
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends a typed JSON event to every connected dashboard
func (h *Hub) Broadcast(eventType string, payload interface{}) {
	msg, err := json.Marshal(map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	})
	if err != nil {
		log.Printf("Error marshaling broadcast: %v", err)
		return
	}

	select {
	case h.broadcast <- msg:
	default:
		log.Println("⚠️ Broadcast channel full, dropping event")
	}
}
