package app

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"campfire/internal/auth/session"
	"campfire/internal/ice"
	"campfire/internal/realtime"
)

func newTestMux(t *testing.T, iceCfg ice.Config, adminToken string) (*http.ServeMux, *session.Store) {
	t.Helper()

	log := slog.New(slog.DiscardHandler)

	sessions, err := session.NewStore(session.Config{TTL: time.Hour})
	if err != nil {
		t.Fatalf("session store: %v", err)
	}

	issuer := ice.NewIssuer(log, iceCfg)
	ws := realtime.NewWSGateway(log, realtime.WSGatewayDeps{Sessions: sessions})
	admin := NewAdminHandler(log, adminToken, sessions, nil, nil)

	mux := http.NewServeMux()
	registerHTTP(mux, log, Config{}, nil, false, ws, sessions, issuer, prometheus.NewRegistry(), admin)
	return mux, sessions
}

func TestHealthz(t *testing.T) {
	mux, _ := newTestMux(t, ice.Config{}, "")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz = %d", rec.Code)
	}
}

func TestReadyzWithoutDB(t *testing.T) {
	mux, _ := newTestMux(t, ice.Config{}, "")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz = %d, want 200 when DB optional", rec.Code)
	}
}

func TestIceEndpoint(t *testing.T) {
	cfg := ice.Config{SharedSecret: "turn-secret", TTL: time.Hour, URLs: []string{"turn:turn.example.com:3478"}}
	mux, sessions := newTestMux(t, cfg, "")

	now := time.Now().UTC()
	sess := sessions.Create(now, "did:plc:alice", "alice.example.com", 0)

	t.Run("no token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/ice", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("bad token", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/ice", nil)
		r.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, r)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/ice", nil)
		r.Header.Set("Authorization", "Bearer "+sess.Token)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, r)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
		}

		var cred ice.Credential
		if err := json.NewDecoder(rec.Body).Decode(&cred); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasSuffix(cred.Username, ":did:plc:alice") {
			t.Errorf("username = %q, want expiry:identity", cred.Username)
		}
		if cred.Credential == "" || len(cred.URLs) != 1 {
			t.Errorf("credential = %+v", cred)
		}
	})
}

func TestIceEndpointUnconfigured(t *testing.T) {
	mux, sessions := newTestMux(t, ice.Config{}, "")
	sess := sessions.Create(time.Now().UTC(), "did:plc:bob", "bob.example.com", 0)

	r := httptest.NewRequest("POST", "/ice", nil)
	r.Header.Set("Authorization", "Bearer "+sess.Token)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, r)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 when TURN unconfigured", rec.Code)
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	cases := []struct {
		header string
		want   string
		wantOK bool
	}{
		{"Bearer abc", "abc", true},
		{"Bearer   abc  ", "abc", true},
		{"bearer abc", "", false},
		{"Basic abc", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		r := httptest.NewRequest("GET", "/", nil)
		if tc.header != "" {
			r.Header.Set("Authorization", tc.header)
		}
		got, ok := bearerToken(r)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("bearerToken(%q) = (%q, %v), want (%q, %v)", tc.header, got, ok, tc.want, tc.wantOK)
		}
	}
}
