package realtime

import (
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"
)

func TestEnforceOrigin(t *testing.T) {
	g := &WSGateway{
		log:            slog.New(slog.DiscardHandler),
		originRequired: true,
		allowedOrigins: []string{"http://localhost", "https://chat.example.com"},
	}

	cases := []struct {
		name   string
		origin string
		wantOK bool
	}{
		{"exact match", "http://localhost", true},
		{"same host different port", "http://localhost:5173", true},
		{"https allowed host", "https://chat.example.com", true},
		{"unlisted host", "https://evil.example.net", false},
		{"missing origin", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/ws", nil)
			if tc.origin != "" {
				r.Header.Set("Origin", tc.origin)
			}

			err := g.enforceOrigin(r)
			if tc.wantOK && err != nil {
				t.Fatalf("enforceOrigin(%q) = %v, want nil", tc.origin, err)
			}
			if !tc.wantOK && err == nil {
				t.Fatalf("enforceOrigin(%q) = nil, want error", tc.origin)
			}
		})
	}
}

func TestEnforceOriginOptional(t *testing.T) {
	g := &WSGateway{
		log:            slog.New(slog.DiscardHandler),
		originRequired: false,
		allowedOrigins: []string{"http://localhost"},
	}

	r := httptest.NewRequest("GET", "/ws", nil)
	if err := g.enforceOrigin(r); err != nil {
		t.Fatalf("missing origin with originRequired=false: %v", err)
	}

	r.Header.Set("Origin", "https://evil.example.net")
	if err := g.enforceOrigin(r); err == nil {
		t.Fatal("present-but-unlisted origin must still be rejected")
	}
}

func TestOriginHostOnly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"http://localhost", "localhost"},
		{"http://localhost:3000", "localhost"},
		{"https://Chat.Example.COM", "chat.example.com"},
		{"localhost:8080", "localhost"},
		{"localhost", "localhost"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := originHostOnly(tc.in); got != tc.want {
			t.Errorf("originHostOnly(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDeriveOriginPatterns(t *testing.T) {
	t.Parallel()

	got := deriveOriginPatterns([]string{"http://localhost", "http://localhost:3000", "https://chat.example.com", "*"})

	set := make(map[string]struct{}, len(got))
	for _, h := range got {
		set[h] = struct{}{}
	}
	if len(set) != 2 {
		t.Fatalf("patterns = %v, want 2 distinct hosts", got)
	}
	for _, want := range []string{"localhost", "chat.example.com"} {
		if _, ok := set[want]; !ok {
			t.Errorf("patterns %v missing %q", got, want)
		}
	}
}

func TestNewWSGatewayEnvOverrides(t *testing.T) {
	t.Setenv("CAMPFIRE_WS_ORIGIN_REQUIRED", "false")
	t.Setenv("CAMPFIRE_WS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("CAMPFIRE_RATE_MAX", "5")
	t.Setenv("CAMPFIRE_RATE_WINDOW", "10s")
	t.Setenv("CAMPFIRE_HEARTBEAT_INTERVAL", "7s")
	t.Setenv("CAMPFIRE_HEARTBEAT_MAX_MISSED", "4")

	g := NewWSGateway(slog.New(slog.DiscardHandler), WSGatewayDeps{})

	if g.originRequired {
		t.Error("originRequired not overridden")
	}
	if len(g.allowedOrigins) != 2 || g.allowedOrigins[0] != "https://a.example.com" {
		t.Errorf("allowedOrigins = %v", g.allowedOrigins)
	}
	if g.heartbeat.Interval != 7*time.Second || g.heartbeat.MaxMissed != 4 {
		t.Errorf("heartbeat cfg = %+v", g.heartbeat)
	}

	// Limiter picked up the tightened budget: 5 events then deny.
	now := time.Now()
	for i := 0; i < 5; i++ {
		if !g.rateLimiter.Allow("k", now) {
			t.Fatalf("event %d unexpectedly denied", i)
		}
	}
	if g.rateLimiter.Allow("k", now) {
		t.Error("6th event allowed, want denied")
	}
}

func TestReconnectTeardownKeepsReplacementPresence(t *testing.T) {
	g := NewWSGateway(slog.New(slog.DiscardHandler), WSGatewayDeps{})
	const did = "did:plc:alice"

	first := NewClient("conn-old", 4)
	first.DID = did
	g.hub.Register(first)
	g.presence.Connect(did)
	g.presence.JoinRoom(did, "lobby")

	// Reconnect: the newer connection replaces the index entry and
	// re-establishes presence before the old connection finishes closing.
	second := NewClient("conn-new", 4)
	second.DID = did
	g.hub.Register(second)
	g.presence.Connect(did)
	g.presence.JoinRoom(did, "lobby")

	// The stale connection's teardown runs last. It must not touch the
	// replacement's presence or room membership.
	g.teardownClient(first)

	if got := g.presence.Status(did); got != StatusOnline {
		t.Fatalf("after stale teardown: status = %q, want %q", got, StatusOnline)
	}
	if !g.presence.InRoom(did, "lobby") {
		t.Fatal("after stale teardown: user evicted from lobby")
	}
	if members := g.presence.RoomMembers("lobby"); len(members) != 1 || members[0] != did {
		t.Fatalf("lobby members = %v, want [%s]", members, did)
	}

	// Tearing down the live connection still releases everything.
	g.teardownClient(second)

	if got := g.presence.Status(did); got != StatusOffline {
		t.Fatalf("after live teardown: status = %q, want %q", got, StatusOffline)
	}
	if members := g.presence.RoomMembers("lobby"); len(members) != 0 {
		t.Fatalf("lobby members = %v, want empty", members)
	}
}

func TestNewWSGatewayDefaults(t *testing.T) {
	t.Setenv("CAMPFIRE_WS_ORIGIN_REQUIRED", "")
	t.Setenv("CAMPFIRE_WS_ALLOWED_ORIGINS", "")
	t.Setenv("CAMPFIRE_REQUIRE_ALLOWLIST", "")

	g := NewWSGateway(nil, WSGatewayDeps{})

	if !g.originRequired {
		t.Error("origin must be required by default")
	}
	if len(g.allowedOrigins) != 2 {
		t.Errorf("default allowedOrigins = %v, want localhost pair", g.allowedOrigins)
	}
	if g.requireAllowlist {
		t.Error("allowlist gate must be off without config and store")
	}
	if g.sendQueueSize < wsMinSendQueueSize {
		t.Errorf("sendQueueSize = %d, below floor", g.sendQueueSize)
	}
}
