package access

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// AllowlistEntry is one persisted allowlist row.
type AllowlistEntry struct {
	DID     string
	Handle  string
	Reason  string
	AddedBy string
}

// AllowlistStore abstracts allowlist persistence.
type AllowlistStore interface {
	List(ctx context.Context) ([]AllowlistEntry, error)
	Insert(ctx context.Context, e AllowlistEntry) error
	Remove(ctx context.Context, did string) error
}

// Allowlist mirrors the persisted global allowlist into an in-memory set
// for O(1) membership checks. Mutations write through to the store and
// then update memory; memory is the source of truth for IsAllowed.
//
// This gate is applied at the transport/session layer, before any
// room-specific checks.
type Allowlist struct {
	log   *slog.Logger
	store AllowlistStore

	mu      sync.RWMutex
	members map[string]struct{}
}

// NewAllowlist constructs an empty (deny-everyone) allowlist; call Load
// to populate it from the store.
func NewAllowlist(log *slog.Logger, store AllowlistStore) *Allowlist {
	return &Allowlist{
		log:     log,
		store:   store,
		members: make(map[string]struct{}),
	}
}

// Load replaces the in-memory set with the full persisted set.
func (a *Allowlist) Load(ctx context.Context) error {
	entries, err := a.store.List(ctx)
	if err != nil {
		return fmt.Errorf("allowlist load: %w", err)
	}

	members := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if did := strings.TrimSpace(e.DID); did != "" {
			members[did] = struct{}{}
		}
	}

	a.mu.Lock()
	a.members = members
	a.mu.Unlock()

	a.log.Info("allowlist.loaded", "count", len(members))
	return nil
}

// Add persists an entry and then admits it in memory. If the write
// fails, memory is left untouched.
func (a *Allowlist) Add(ctx context.Context, e AllowlistEntry) error {
	e.DID = strings.TrimSpace(e.DID)
	if e.DID == "" {
		return fmt.Errorf("allowlist add: empty did")
	}

	if err := a.store.Insert(ctx, e); err != nil {
		return fmt.Errorf("allowlist add: %w", err)
	}

	a.mu.Lock()
	a.members[e.DID] = struct{}{}
	a.mu.Unlock()

	a.log.Info("allowlist.add", "did", e.DID, "added_by", e.AddedBy)
	return nil
}

// Remove deletes an entry from the store and then from memory.
func (a *Allowlist) Remove(ctx context.Context, did string) error {
	did = strings.TrimSpace(did)
	if did == "" {
		return fmt.Errorf("allowlist remove: empty did")
	}

	if err := a.store.Remove(ctx, did); err != nil {
		return fmt.Errorf("allowlist remove: %w", err)
	}

	a.mu.Lock()
	delete(a.members, did)
	a.mu.Unlock()

	a.log.Info("allowlist.remove", "did", did)
	return nil
}

// IsAllowed reports membership from memory only; it never blocks.
func (a *Allowlist) IsAllowed(did string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	_, ok := a.members[did]
	return ok
}

// Len reports the size of the in-memory set.
func (a *Allowlist) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.members)
}
