package app

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

func TestRunReleasesPruneLoopOnListenFailure(t *testing.T) {
	cfg := Config{
		SessionTTL:    time.Hour,
		HTTPAddr:      "127.0.0.1:99999", // invalid port: listen fails immediately
		PruneInterval: time.Hour,
	}

	a, err := New(cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()

	// The caller's context is never cancelled here, so Run must stop the
	// prune loop itself on the fatal-error path or it hangs forever.
	select {
	case err := <-done:
		if err == nil {
			t.Fatal("Run = nil, want listen error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after listen failure; prune loop leaked")
	}
}
