// Package access implements room access control: ban lookups, the global
// allowlist, and the minimum-account-age gate.
package access

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Room carries the room settings the gate needs.
type Room struct {
	ID                string
	MinAccountAgeDays int
}

// BanStore looks up room bans.
type BanStore interface {
	IsBanned(ctx context.Context, roomID, did string) (bool, error)
}

// RoomStore looks up room settings. ok=false means the room does not exist.
type RoomStore interface {
	GetRoom(ctx context.Context, roomID string) (room Room, ok bool, err error)
}

// AccountAgeResolver resolves an identity's account-creation date.
// ok=false means "cannot determine" (unsupported scheme, lookup failure),
// which the gate treats as pass: age cannot be disproven. The tagged
// result keeps that fail-open policy explicit rather than conflating
// "unknown" with "zero age".
type AccountAgeResolver interface {
	CreatedAt(ctx context.Context, did string) (created time.Time, ok bool)
}

// Decision is the structured outcome of an access check. Denials carry a
// reason suitable for surfacing to the user; they are values, not errors.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision             { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Allowed: false, Reason: reason} }

// Gate composes the room-level checks into one allow/deny decision.
//
// The global allowlist is NOT part of this gate: it is an earlier stage
// applied at the transport/session layer (see Allowlist), and callers
// are assumed to have already passed it.
type Gate struct {
	log   *slog.Logger
	bans  BanStore
	rooms RoomStore
	age   AccountAgeResolver
}

// NewGate constructs a Gate from its external collaborators.
func NewGate(log *slog.Logger, bans BanStore, rooms RoomStore, age AccountAgeResolver) *Gate {
	return &Gate{log: log, bans: bans, rooms: rooms, age: age}
}

// CheckAccess evaluates, short-circuiting on first failure:
//
//  1. ban check          -> deny "banned"
//  2. room existence     -> deny "not found"
//  3. minimum account age (when the room requires one and the creation
//     date resolves) -> deny naming the required age in days
//
// Errors reaching the ban or room store are returned to the caller; the
// age resolver swallows its own failures as "unknown" (fail-open).
func (g *Gate) CheckAccess(ctx context.Context, now time.Time, roomID, did string) (Decision, error) {
	banned, err := g.bans.IsBanned(ctx, roomID, did)
	if err != nil {
		return Decision{}, fmt.Errorf("ban lookup: %w", err)
	}
	if banned {
		return deny("you are banned from this room"), nil
	}

	room, ok, err := g.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return Decision{}, fmt.Errorf("room lookup: %w", err)
	}
	if !ok {
		return deny("room not found"), nil
	}

	if room.MinAccountAgeDays > 0 {
		created, ok := g.age.CreatedAt(ctx, did)
		if !ok {
			// Cannot gate, so allow.
			g.log.Debug("access.age.unresolved", "did", did, "room_id", roomID)
			return allow(), nil
		}

		ageDays := int(now.Sub(created).Hours() / 24)
		if ageDays < room.MinAccountAgeDays {
			return deny(fmt.Sprintf("this room requires an account at least %d days old", room.MinAccountAgeDays)), nil
		}
	}

	return allow(), nil
}
