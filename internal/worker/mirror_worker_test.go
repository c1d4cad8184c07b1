package worker

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"salesledger/internal/amqp"
	"salesledger/internal/core"
	applog "salesledger/internal/log"
	"salesledger/internal/mirror"
	"salesledger/internal/sheets/memory"
)

func TestHandleMirrorDay(t *testing.T) {
	tests := []struct {
		name      string
		entry     core.DailyEntry
		remoteErr error
		wantRows  int
	}{
		{"mirrored", core.DailyEntry{Revenue: decimal.NewFromInt(10)}, nil, 1},
		{"skipped", core.DailyEntry{SalesCount: 1}, nil, 0},
		{"remote failure swallowed", core.DailyEntry{Revenue: decimal.NewFromInt(10)}, errors.New("down"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := memory.New()
			remote.SetError(tt.remoteErr)
			w := NewMirrorWorker(mirror.NewSyncer(remote), nil)

			msg := amqp.NewMirrorDayMessage(mirror.Job{UserID: "ana@example.com", Date: "2025-03-05", Entry: tt.entry})
			if err := w.HandleMirrorDay(context.Background(), msg); err != nil {
				t.Fatalf("HandleMirrorDay: %v", err)
			}
			if got := len(remote.Rows()); got != tt.wantRows {
				t.Fatalf("expected %d rows, got %d", tt.wantRows, got)
			}
		})
	}
}

func TestHandleMirrorDayRegistersUserOnce(t *testing.T) {
	remote := memory.New()
	w := NewMirrorWorker(mirror.NewSyncer(remote), nil)
	ctx := context.Background()

	for _, date := range []string{"2025-03-05", "2025-03-06"} {
		msg := amqp.NewMirrorDayMessage(mirror.Job{UserID: "ana@example.com", Date: date, Entry: core.DailyEntry{Revenue: decimal.NewFromInt(1)}})
		if err := w.HandleMirrorDay(ctx, msg); err != nil {
			t.Fatalf("HandleMirrorDay: %v", err)
		}
	}
	if users := remote.Users(); len(users) != 1 || users[0].ID != "ana@example.com" {
		t.Fatalf("expected ana registered once, got %+v", users)
	}
	if rows := remote.Rows(); len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}

func TestHandleMirrorDayLogsThroughWorkerLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := applog.New(applog.Config{Level: slog.LevelDebug, Output: &buf}).With("queue", "mirror_daily_sales")
	w := NewMirrorWorker(mirror.NewSyncer(memory.New()), logger)

	msg := amqp.NewMirrorDayMessage(mirror.Job{UserID: "ana@example.com", Date: "2025-03-05", Entry: core.DailyEntry{Revenue: decimal.NewFromInt(5)}})
	if err := w.HandleMirrorDay(context.Background(), msg); err != nil {
		t.Fatalf("HandleMirrorDay: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Mirror message processed") || !strings.Contains(out, "queue=mirror_daily_sales") {
		t.Fatalf("expected processed record with queue attribute, got %q", out)
	}
}
