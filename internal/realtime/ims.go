package realtime

import (
	"errors"
	"sync"
)

// ErrInvalidConversation is returned when a registration does not carry
// exactly two distinct participants.
var ErrInvalidConversation = errors.New("im: conversation requires two distinct participants")

type imConversation struct {
	a, b string
}

// IMRegistry owns ephemeral two-party conversation records used to
// authorize relay of peer-to-peer signaling payloads without a database
// round-trip. Records are created when an offer begins and removed when
// either party hangs up or the call times out (driven by the gateway).
type IMRegistry struct {
	mu    sync.Mutex
	convs map[string]imConversation
}

// NewIMRegistry constructs an empty registry.
func NewIMRegistry() *IMRegistry {
	return &IMRegistry{convs: make(map[string]imConversation)}
}

// Register records a conversation between two distinct participants.
// Re-registering an id overwrites the previous record.
func (r *IMRegistry) Register(id, participantA, participantB string) error {
	if id == "" || participantA == "" || participantB == "" || participantA == participantB {
		return ErrInvalidConversation
	}

	r.mu.Lock()
	r.convs[id] = imConversation{a: participantA, b: participantB}
	r.mu.Unlock()
	return nil
}

// Unregister removes a conversation. Unknown ids are a no-op.
func (r *IMRegistry) Unregister(id string) {
	r.mu.Lock()
	delete(r.convs, id)
	r.mu.Unlock()
}

// Has reports whether id is registered.
func (r *IMRegistry) Has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.convs[id]
	return ok
}

// IsParticipant reports whether did is one of the two participants.
func (r *IMRegistry) IsParticipant(id, did string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.convs[id]
	return ok && (c.a == did || c.b == did)
}

// RecipientDID returns the other participant when senderDID is one of
// the two. An unknown conversation and a non-participant sender both
// report absent; callers must treat either as "do not relay" without
// telling the sender which case occurred.
func (r *IMRegistry) RecipientDID(id, senderDID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.convs[id]
	if !ok {
		return "", false
	}
	switch senderDID {
	case c.a:
		return c.b, true
	case c.b:
		return c.a, true
	default:
		return "", false
	}
}
