package access

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPLCResolver_ResolvesAndCaches(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Path != "/did:plc:alice/log/audit" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `[{"createdAt":%q},{"createdAt":"2025-01-01T00:00:00Z"}]`, created.Format(time.RFC3339))
	}))
	defer srv.Close()

	r := NewPLCResolver(slog.New(slog.DiscardHandler), srv.URL, srv.Client())

	got, ok := r.CreatedAt(context.Background(), "did:plc:alice")
	if !ok || !got.Equal(created) {
		t.Fatalf("CreatedAt=%v ok=%v", got, ok)
	}

	// Second call is served from cache.
	if _, ok := r.CreatedAt(context.Background(), "did:plc:alice"); !ok {
		t.Fatalf("cached lookup failed")
	}
	if hits != 1 {
		t.Fatalf("expected 1 directory hit, got %d", hits)
	}
}

func TestPLCResolver_UnsupportedSchemeIsUnknown(t *testing.T) {
	t.Parallel()

	r := NewPLCResolver(slog.New(slog.DiscardHandler), "http://127.0.0.1:0", nil)
	if _, ok := r.CreatedAt(context.Background(), "did:web:example.com"); ok {
		t.Fatalf("non-plc scheme must resolve as unknown")
	}
}

func TestPLCResolver_FailuresAreUnknown(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewPLCResolver(slog.New(slog.DiscardHandler), srv.URL, srv.Client())
	if _, ok := r.CreatedAt(context.Background(), "did:plc:gone"); ok {
		t.Fatalf("directory failure must resolve as unknown")
	}
}

func TestPLCResolver_EmptyAuditLogIsUnknown(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	r := NewPLCResolver(slog.New(slog.DiscardHandler), srv.URL, srv.Client())
	if _, ok := r.CreatedAt(context.Background(), "did:plc:empty"); ok {
		t.Fatalf("empty audit log must resolve as unknown")
	}
}
