package realtime

import (
	"log/slog"
	"testing"
)

func TestHubRegisterReplacesAndClosesPrevious(t *testing.T) {
	t.Parallel()

	h := NewHub(slog.New(slog.DiscardHandler))

	first := NewClient("conn-1", 4)
	first.DID = "did:plc:alice"
	h.Register(first)

	second := NewClient("conn-2", 4)
	second.DID = "did:plc:alice"
	h.Register(second)

	select {
	case <-first.Done():
	default:
		t.Fatal("replaced connection must be signaled to close")
	}

	got, ok := h.Get("did:plc:alice")
	if !ok || got != second {
		t.Fatalf("Get = %v, %v; want the newer connection", got, ok)
	}
}

func TestHubUnregisterReportsRemoval(t *testing.T) {
	t.Parallel()

	h := NewHub(slog.New(slog.DiscardHandler))

	first := NewClient("conn-1", 4)
	first.DID = "did:plc:alice"
	h.Register(first)

	second := NewClient("conn-2", 4)
	second.DID = "did:plc:alice"
	h.Register(second)

	// The stale connection is no longer the indexed one; unregistering it
	// must be a no-op and say so, or its teardown would evict the
	// replacement's state.
	if h.Unregister(first) {
		t.Fatal("Unregister(stale) = true, want false")
	}
	if _, ok := h.Get("did:plc:alice"); !ok {
		t.Fatal("replacement evicted by stale unregister")
	}

	if !h.Unregister(second) {
		t.Fatal("Unregister(current) = false, want true")
	}
	if _, ok := h.Get("did:plc:alice"); ok {
		t.Fatal("current connection still indexed after unregister")
	}

	if h.Unregister(second) {
		t.Fatal("second Unregister of the same client must report false")
	}
}

func TestHubUnregisterNilAndAnonymous(t *testing.T) {
	t.Parallel()

	h := NewHub(slog.New(slog.DiscardHandler))

	if h.Unregister(nil) {
		t.Fatal("Unregister(nil) must report false")
	}
	if h.Unregister(NewClient("conn-anon", 4)) {
		t.Fatal("Unregister of a client without a DID must report false")
	}
}
