// Package realtime pushes order events to connected clients over WebSocket.
// Clients join named rooms (a canteen id for crew dashboards, a student id
// for order tracking) and receive order_update events scoped to those rooms.
package realtime

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// OrderUpdate is the event pushed to a room when an order changes.
type OrderUpdate struct {
	OrderID     string `json:"order_id"`
	Status      string `json:"status"`
	CanteenID   string `json:"canteen_id,omitempty"`
	StudentID   string `json:"student_id,omitempty"`
	TokenNumber int    `json:"token_number,omitempty"`
}

type envelope struct {
	Event string      `json:"event"`
	Data  OrderUpdate `json:"data"`
}

type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
	log   *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
		log:   log,
	}
}

func (h *Hub) join(room string, c *Client) {
	if room == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.rooms[room]
	if !ok {
		clients = make(map[*Client]struct{})
		h.rooms[room] = clients
	}
	clients[c] = struct{}{}
	h.log.WithField("room", room).Debug("client joined room")
}

func (h *Hub) leave(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(room, c)
}

// drop removes the client from every room it joined. Called on disconnect so
// stale subscriptions do not accumulate.
func (h *Hub) drop(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room := range h.rooms {
		h.removeLocked(room, c)
	}
}

func (h *Hub) removeLocked(room string, c *Client) {
	clients, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(clients, c)
	if len(clients) == 0 {
		delete(h.rooms, room)
	}
}

// Broadcast sends an order_update event to every client in the room. Slow
// clients with a full send buffer are skipped rather than blocking the
// caller; they will refetch on reconnect.
func (h *Hub) Broadcast(room string, update OrderUpdate) {
	msg := envelope{Event: "order_update", Data: update}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		select {
		case c.send <- msg:
		default:
			h.log.WithField("room", room).Warn("dropping event for slow client")
		}
	}
}

// RoomSize reports how many clients are subscribed to a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
