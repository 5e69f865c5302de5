package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// Event is the frame pushed over a live connection.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub tracks live connections per user. The registry is process-local
// and in-memory; it is rebuilt from connection events and lost on
// restart (clients re-register by reconnecting).
type Hub struct {
	clients map[uint]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	push       chan pushRequest

	mutex sync.RWMutex
}

type pushRequest struct {
	userID  uint
	payload []byte
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		push:       make(chan pushRequest, 64),
	}
}

// Run processes connection events until the context is canceled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mutex.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.mutex.Unlock()
			slog.Info("ws client registered", "user_id", client.userID)

		case client := <-h.unregister:
			h.mutex.Lock()
			if clients, ok := h.clients[client.userID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.clients, client.userID)
					}
				}
			}
			h.mutex.Unlock()
			slog.Info("ws client unregistered", "user_id", client.userID)

		case req := <-h.push:
			h.deliver(req.userID, req.payload)
		}
	}
}

// Push sends an event to every live connection of the user. Delivery is
// fire-and-forget: the durable notification row is the source of truth,
// so an offline user or a full client buffer is not an error.
func (h *Hub) Push(userID uint, event string, data any) error {
	payload, err := json.Marshal(Event{Type: event, Data: data})
	if err != nil {
		return err
	}
	h.push <- pushRequest{userID: userID, payload: payload}
	return nil
}

// IsConnected reports whether the user has at least one live connection.
func (h *Hub) IsConnected(userID uint) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[userID]) > 0
}

func (h *Hub) deliver(userID uint, payload []byte) {
	h.mutex.RLock()
	clients := make([]*Client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		clients = append(clients, c)
	}
	h.mutex.RUnlock()

	for _, client := range clients {
		select {
		case client.send <- payload:
		default:
			// Slow consumer: drop the connection rather than block the hub.
			h.mutex.Lock()
			if set, ok := h.clients[userID]; ok && set[client] {
				delete(set, client)
				close(client.send)
				if len(set) == 0 {
					delete(h.clients, userID)
				}
			}
			h.mutex.Unlock()
		}
	}
}
