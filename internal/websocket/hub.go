package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Change event types, mirroring the row operations handlers perform.
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// ChangeEvent is a table change notification delivered to subscribers.
type ChangeEvent struct {
	Table   string      `json:"table"`
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// subscription updates which tables a client wants events for.
type subscription struct {
	client *Client
	tables []string
	active bool
}

// Hub maintains active WebSocket connections and fans table change events
// out to the clients subscribed to each table.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Outbound change events from handlers
	events chan *ChangeEvent

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Subscription changes from client read pumps
	subscriptions chan subscription

	// Mutex for thread-safe client map access
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		events:        make(chan *ChangeEvent, 256),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		subscriptions: make(chan subscription),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("✅ [WEBSOCKET] Client connected: %s (total: %d)", client.UserID, total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("🔴 [WEBSOCKET] Client disconnected: %s (remaining: %d)",
					client.UserID, len(h.clients))
			}
			h.mu.Unlock()

		case sub := <-h.subscriptions:
			h.mu.Lock()
			for _, table := range sub.tables {
				if sub.active {
					sub.client.tables[table] = true
				} else {
					delete(sub.client.tables, table)
				}
			}
			h.mu.Unlock()

		case event := <-h.events:
			data, err := json.Marshal(event)
			if err != nil {
				log.Printf("❌ Failed to marshal change event: %v", err)
				continue
			}

			h.mu.RLock()
			for client := range h.clients {
				if !client.tables[event.Table] {
					continue
				}
				select {
				case client.send <- data:
				default:
					// Client buffer full, drop the event for this client
					log.Printf("⚠️ Client buffer full, dropping event for: %s", client.UserID)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish queues a table change event for delivery to subscribers. Safe to
// call from any handler goroutine. When the hub is saturated the event is
// dropped with a log line — every consumer recomputes from a fresh snapshot
// on the next fetch, so a lost notification is not a lost update.
func (h *Hub) Publish(table, eventType string, payload interface{}) {
	select {
	case h.events <- &ChangeEvent{Table: table, Type: eventType, Payload: payload}:
	default:
		log.Printf("⚠️ [WEBSOCKET] Event queue full, dropping %s on %s", eventType, table)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
