package realtime

import (
	"log/slog"
	"sync"
)

// Hub indexes connected clients by DID so room broadcasts and signaling
// relays can find a reachable connection. It owns no presence semantics;
// that is PresenceTracker's job.
type Hub struct {
	log *slog.Logger

	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub constructs a Hub instance.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:     log,
		clients: make(map[string]*Client),
	}
}

// Register indexes client under its DID. A newer connection for the same
// DID replaces the old index entry; the old connection is signaled to close.
func (h *Hub) Register(client *Client) {
	if client == nil || client.DID == "" {
		return
	}

	h.mu.Lock()
	prev := h.clients[client.DID]
	h.clients[client.DID] = client
	h.mu.Unlock()

	if prev != nil && prev != client {
		prev.Close()
		h.log.Info("hub.replace", "did", client.DID, "old_conn", prev.ConnID, "new_conn", client.ConnID)
	}
}

// Unregister removes client from the index, but only if it is still the
// current connection for its DID (a replacement must not be evicted).
// It reports whether this client was removed; callers use that to decide
// whether connection-scoped state (presence) should be torn down too.
func (h *Hub) Unregister(client *Client) bool {
	if client == nil || client.DID == "" {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.DID] != client {
		return false
	}
	delete(h.clients, client.DID)
	return true
}

// Get returns the connected client for did, if any.
func (h *Hub) Get(did string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.clients[did]
	return c, ok
}

// Deliver enqueues env for did without blocking. It reports false when
// the target is not connected, shutting down, or its queue is full.
func (h *Hub) Deliver(did string, env Envelope) bool {
	c, ok := h.Get(did)
	if !ok {
		return false
	}

	select {
	case <-c.Done():
		return false
	default:
	}

	select {
	case c.Send <- env:
		return true
	default:
		// Drop rather than block the caller.
		return false
	}
}
