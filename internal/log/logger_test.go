package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestNewJSONIncludesComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Format: "json", Component: "mirror", Output: &buf})

	ctx := context.Background()
	l.InfoContext(ctx, "Mirrored month", "user_id", "ana@example.com")
	l.DebugContext(ctx, "hidden")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected one JSON record, got %q: %v", buf.String(), err)
	}
	if rec["component"] != "mirror" || rec["user_id"] != "ana@example.com" {
		t.Fatalf("unexpected record %v", rec)
	}
}

func TestWithKeepsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Component: "worker", Output: &buf}).With("queue", "mirror_daily_sales")

	l.WarnContext(context.Background(), "tick")
	out := buf.String()
	if !strings.Contains(out, "component=worker") || !strings.Contains(out, "queue=mirror_daily_sales") {
		t.Fatalf("attributes missing from %q", out)
	}
}

func TestWrappedHandlerWithoutComponent(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	l := New(Config{Handler: base.Handler()})

	l.DebugContext(context.Background(), "tick", "id", "m-1")
	out := buf.String()
	if strings.Contains(out, "component=") || !strings.Contains(out, "id=m-1") {
		t.Fatalf("unexpected record %q", out)
	}
}
