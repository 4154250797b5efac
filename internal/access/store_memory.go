package access

import (
	"context"
	"sync"
)

// MemoryStores is the in-memory implementation of BanStore, RoomStore,
// and AllowlistStore used when no database is configured. It starts
// empty; rooms and bans are seeded through the mutation helpers.
type MemoryStores struct {
	mu        sync.RWMutex
	rooms     map[string]Room
	bans      map[string]map[string]struct{}
	allowlist map[string]AllowlistEntry
}

// NewMemoryStores constructs an empty MemoryStores.
func NewMemoryStores() *MemoryStores {
	return &MemoryStores{
		rooms:     make(map[string]Room),
		bans:      make(map[string]map[string]struct{}),
		allowlist: make(map[string]AllowlistEntry),
	}
}

// PutRoom creates or replaces a room.
func (s *MemoryStores) PutRoom(room Room) {
	if room.ID == "" {
		return
	}
	s.mu.Lock()
	s.rooms[room.ID] = room
	s.mu.Unlock()
}

// Ban records a room ban for did.
func (s *MemoryStores) Ban(roomID, did string) {
	if roomID == "" || did == "" {
		return
	}
	s.mu.Lock()
	if s.bans[roomID] == nil {
		s.bans[roomID] = make(map[string]struct{})
	}
	s.bans[roomID][did] = struct{}{}
	s.mu.Unlock()
}

// Unban lifts a room ban for did.
func (s *MemoryStores) Unban(roomID, did string) {
	s.mu.Lock()
	if banned, ok := s.bans[roomID]; ok {
		delete(banned, did)
		if len(banned) == 0 {
			delete(s.bans, roomID)
		}
	}
	s.mu.Unlock()
}

// IsBanned implements BanStore.
func (s *MemoryStores) IsBanned(_ context.Context, roomID, did string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	banned, ok := s.bans[roomID]
	if !ok {
		return false, nil
	}
	_, hit := banned[did]
	return hit, nil
}

// GetRoom implements RoomStore.
func (s *MemoryStores) GetRoom(_ context.Context, roomID string) (Room, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[roomID]
	return room, ok, nil
}

// List implements AllowlistStore.
func (s *MemoryStores) List(_ context.Context) ([]AllowlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]AllowlistEntry, 0, len(s.allowlist))
	for _, e := range s.allowlist {
		out = append(out, e)
	}
	return out, nil
}

// Insert implements AllowlistStore (upsert by DID).
func (s *MemoryStores) Insert(_ context.Context, e AllowlistEntry) error {
	s.mu.Lock()
	s.allowlist[e.DID] = e
	s.mu.Unlock()
	return nil
}

// Remove implements AllowlistStore.
func (s *MemoryStores) Remove(_ context.Context, did string) error {
	s.mu.Lock()
	delete(s.allowlist, did)
	s.mu.Unlock()
	return nil
}
