package access

import (
	"context"
	"testing"
)

func TestMemoryStoresBans(t *testing.T) {
	t.Parallel()

	s := NewMemoryStores()
	ctx := context.Background()

	banned, err := s.IsBanned(ctx, "lobby", "did:plc:x")
	if err != nil || banned {
		t.Fatalf("empty store: banned=%v err=%v", banned, err)
	}

	s.Ban("lobby", "did:plc:x")
	if banned, _ := s.IsBanned(ctx, "lobby", "did:plc:x"); !banned {
		t.Fatal("ban not recorded")
	}
	if banned, _ := s.IsBanned(ctx, "other", "did:plc:x"); banned {
		t.Fatal("ban leaked across rooms")
	}

	s.Unban("lobby", "did:plc:x")
	if banned, _ := s.IsBanned(ctx, "lobby", "did:plc:x"); banned {
		t.Fatal("unban not applied")
	}
}

func TestMemoryStoresRooms(t *testing.T) {
	t.Parallel()

	s := NewMemoryStores()
	ctx := context.Background()

	if _, ok, _ := s.GetRoom(ctx, "lobby"); ok {
		t.Fatal("room exists before PutRoom")
	}

	s.PutRoom(Room{ID: "lobby", MinAccountAgeDays: 7})
	room, ok, err := s.GetRoom(ctx, "lobby")
	if err != nil || !ok || room.MinAccountAgeDays != 7 {
		t.Fatalf("GetRoom = %+v ok=%v err=%v", room, ok, err)
	}

	// Replace is a full overwrite.
	s.PutRoom(Room{ID: "lobby"})
	room, _, _ = s.GetRoom(ctx, "lobby")
	if room.MinAccountAgeDays != 0 {
		t.Fatalf("overwrite kept stale age: %+v", room)
	}
}

func TestMemoryStoresAllowlist(t *testing.T) {
	t.Parallel()

	s := NewMemoryStores()
	ctx := context.Background()

	if err := s.Insert(ctx, AllowlistEntry{DID: "did:plc:a"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Insert(ctx, AllowlistEntry{DID: "did:plc:a", Reason: "updated"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	entries, err := s.List(ctx)
	if err != nil || len(entries) != 1 {
		t.Fatalf("list = %v err=%v", entries, err)
	}
	if entries[0].Reason != "updated" {
		t.Fatalf("upsert did not replace: %+v", entries[0])
	}

	if err := s.Remove(ctx, "did:plc:a"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if entries, _ := s.List(ctx); len(entries) != 0 {
		t.Fatalf("list after remove = %v", entries)
	}
}
