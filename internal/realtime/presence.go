package realtime

import (
	"log/slog"
	"sync"
)

// Status is a user's liveness state. Absence from the tracker means offline.
type Status string

const (
	StatusOffline Status = "offline"
	StatusOnline  Status = "online"
	StatusAway    Status = "away"
	StatusIdle    Status = "idle"
)

// ValidStatus reports whether s is one of the known status values.
func ValidStatus(s Status) bool {
	switch s {
	case StatusOffline, StatusOnline, StatusAway, StatusIdle:
		return true
	default:
		return false
	}
}

// Presence is the disclosed per-user presence value.
type Presence struct {
	Status      Status `json:"status"`
	AwayMessage string `json:"away_message,omitempty"`
}

type presenceEntry struct {
	status      Status
	awayMessage string
	rooms       map[string]struct{}
}

// PresenceTracker owns per-DID status and room membership.
//
// Membership is materialized both per-identity (forward) and per-room
// (reverse index for RoomMembers); both sides are mutated inside one
// critical section so they can never diverge. Nothing here persists:
// a process restart resets every identity to offline.
type PresenceTracker struct {
	log *slog.Logger

	mu      sync.Mutex
	entries map[string]*presenceEntry
	rooms   map[string]map[string]struct{}
}

// NewPresenceTracker constructs an empty tracker.
func NewPresenceTracker(log *slog.Logger) *PresenceTracker {
	return &PresenceTracker{
		log:     log,
		entries: make(map[string]*presenceEntry),
		rooms:   make(map[string]map[string]struct{}),
	}
}

func (p *PresenceTracker) entry(did string) *presenceEntry {
	e, ok := p.entries[did]
	if !ok {
		e = &presenceEntry{status: StatusOffline, rooms: make(map[string]struct{})}
		p.entries[did] = e
	}
	return e
}

// Connect marks did online. Idempotent; room membership is untouched.
func (p *PresenceTracker) Connect(did string) {
	if did == "" {
		return
	}

	p.mu.Lock()
	p.entry(did).status = StatusOnline
	p.mu.Unlock()

	p.log.Debug("presence.connect", "did", did)
}

// Disconnect marks did offline and removes it from every room it joined.
func (p *PresenceTracker) Disconnect(did string) {
	if did == "" {
		return
	}

	p.mu.Lock()
	if e, ok := p.entries[did]; ok {
		for roomID := range e.rooms {
			if members, ok := p.rooms[roomID]; ok {
				delete(members, did)
				if len(members) == 0 {
					delete(p.rooms, roomID)
				}
			}
		}
		delete(p.entries, did)
	}
	p.mu.Unlock()

	p.log.Debug("presence.disconnect", "did", did)
}

// SetStatus transitions did directly to status. The away message is
// retained only while the status is away or idle.
func (p *PresenceTracker) SetStatus(did string, status Status, awayMessage string) {
	if did == "" || !ValidStatus(status) {
		return
	}

	p.mu.Lock()
	e := p.entry(did)
	e.status = status
	if status == StatusAway || status == StatusIdle {
		e.awayMessage = awayMessage
	} else {
		e.awayMessage = ""
	}
	p.mu.Unlock()
}

// JoinRoom adds did to roomID. Membership and liveness are independent
// axes: joining while offline is permitted.
func (p *PresenceTracker) JoinRoom(did, roomID string) {
	if did == "" || roomID == "" {
		return
	}

	p.mu.Lock()
	e := p.entry(did)
	e.rooms[roomID] = struct{}{}
	members, ok := p.rooms[roomID]
	if !ok {
		members = make(map[string]struct{})
		p.rooms[roomID] = members
	}
	members[did] = struct{}{}
	p.mu.Unlock()

	p.log.Debug("presence.room.join", "did", did, "room_id", roomID)
}

// LeaveRoom removes did from roomID without changing status.
func (p *PresenceTracker) LeaveRoom(did, roomID string) {
	if did == "" || roomID == "" {
		return
	}

	p.mu.Lock()
	if e, ok := p.entries[did]; ok {
		delete(e.rooms, roomID)
	}
	if members, ok := p.rooms[roomID]; ok {
		delete(members, did)
		if len(members) == 0 {
			delete(p.rooms, roomID)
		}
	}
	p.mu.Unlock()

	p.log.Debug("presence.room.leave", "did", did, "room_id", roomID)
}

// Status returns the raw status for did (offline when unknown).
func (p *PresenceTracker) Status(did string) Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	if e, ok := p.entries[did]; ok {
		return e.status
	}
	return StatusOffline
}

// InRoom reports whether did is currently a member of roomID.
func (p *PresenceTracker) InRoom(did, roomID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	members, ok := p.rooms[roomID]
	if !ok {
		return false
	}
	_, ok = members[did]
	return ok
}

// RoomMembers returns the DIDs currently joined to roomID (order unspecified).
func (p *PresenceTracker) RoomMembers(roomID string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	members := p.rooms[roomID]
	out := make([]string, 0, len(members))
	for did := range members {
		out = append(out, did)
	}
	return out
}

// UserRooms returns the room ids did has joined (order unspecified).
func (p *PresenceTracker) UserRooms(did string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[did]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(e.rooms))
	for roomID := range e.rooms {
		out = append(out, roomID)
	}
	return out
}

// PresenceBulk returns raw presence for every requested DID, defaulting
// to offline for unknown identities. Requests beyond presenceBulkMax
// identities are truncated to bound fan-out; visibility filtering is the
// caller's job (see ResolveVisibility).
func (p *PresenceTracker) PresenceBulk(dids []string) map[string]Presence {
	if len(dids) > presenceBulkMax {
		dids = dids[:presenceBulkMax]
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	out := make(map[string]Presence, len(dids))
	for _, did := range dids {
		if did == "" {
			continue
		}
		if e, ok := p.entries[did]; ok {
			out[did] = Presence{Status: e.status, AwayMessage: e.awayMessage}
		} else {
			out[did] = Presence{Status: StatusOffline}
		}
	}
	return out
}

// OnlineCount reports how many tracked identities are not offline.
func (p *PresenceTracker) OnlineCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, e := range p.entries {
		if e.status != StatusOffline {
			n++
		}
	}
	return n
}
