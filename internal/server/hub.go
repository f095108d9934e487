package server

import (
	"sort"
	"sync"

	"github.com/thruflo/devmock/internal/protocol"
)

// client is one live UI connection as seen by the hub and the dispatcher.
type client interface {
	ID() string
	Send(env protocol.Envelope) error
	Close() error
}

// Hub is the registry of active connections. Updates are broadcast to every
// registered client so several viewers can watch the same mock device.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]client
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]client)}
}

// Register adds c to the hub.
func (h *Hub) Register(c client) {
	h.mu.Lock()
	h.clients[c.ID()] = c
	h.mu.Unlock()
}

// Unregister removes c from the hub. It is a no-op for unknown clients.
func (h *Hub) Unregister(c client) {
	h.mu.Lock()
	delete(h.clients, c.ID())
	h.mu.Unlock()
}

// Len returns the number of registered clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// IDs returns the ids of registered clients in sorted order.
func (h *Hub) IDs() []string {
	h.mu.RLock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

func (h *Hub) snapshot() []client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]client, 0, len(h.clients))
	for _, c := range h.clients {
		out = append(out, c)
	}
	return out
}

// Broadcast sends env to every registered client. Failed sends are
// collected per client id; a failing client stays registered.
func (h *Hub) Broadcast(env protocol.Envelope) map[string]error {
	var failed map[string]error
	for _, c := range h.snapshot() {
		if err := c.Send(env); err != nil {
			if failed == nil {
				failed = make(map[string]error)
			}
			failed[c.ID()] = err
		}
	}
	return failed
}

// CloseAll closes and unregisters every client.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]client)
	h.mu.Unlock()

	for _, c := range clients {
		_ = c.Close()
	}
}
