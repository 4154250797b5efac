package app

import (
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "unknown", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
	}

	for _, tc := range cases {
		got := parseLogLevel(tc.in)
		if got != tc.want {
			t.Fatalf("parseLogLevel(%q)=%v want=%v", tc.in, got, tc.want)
		}
	}
}

func TestPrettyHandlerRendersRecord(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	log := slog.New(newPrettyHandler(&sb, &slog.HandlerOptions{Level: slog.LevelDebug}, false))

	log.Info("server.start", "addr", "127.0.0.1:8080", "db_enabled", false, "note", "two words")

	out := sb.String()
	for _, want := range []string{"INF", "server.start", "addr=127.0.0.1:8080", "db_enabled=false", `note="two words"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("record must end with newline")
	}
}

func TestPrettyHandlerLevelFilter(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	log := slog.New(newPrettyHandler(&sb, &slog.HandlerOptions{Level: slog.LevelWarn}, false))

	log.Info("quiet")
	log.Warn("loud")

	out := sb.String()
	if strings.Contains(out, "quiet") {
		t.Error("info record leaked through warn level")
	}
	if !strings.Contains(out, "loud") {
		t.Error("warn record suppressed")
	}
}

func TestPrettyHandlerWithAttrs(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	base := slog.New(newPrettyHandler(&sb, nil, false))
	log := base.With("component", "gateway")

	log.Info("ready")

	if !strings.Contains(sb.String(), "component=gateway") {
		t.Errorf("output %q missing bound attr", sb.String())
	}
}
