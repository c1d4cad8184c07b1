package cli

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"salesledger/internal/config"
	"salesledger/internal/core"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DataBackend:     config.BackendMemory,
		LedgerNamespace: "salesData",
		MirrorMode:      config.MirrorInline,
		MirrorWorkers:   1,
		MirrorQueueSize: 4,
		MirrorTimeout:   time.Second,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

func TestNewRuntimeMemoryWithoutRemote(t *testing.T) {
	logger := SetupLogger("test", "error", "text")
	ctx := context.Background()

	rt, err := NewRuntime(ctx, logger, memoryConfig(t))
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}
	if rt.Syncer.Connected() {
		t.Fatal("expected disconnected syncer without spreadsheet")
	}

	r, err := rt.Service.UpdateDay(ctx, "ana@example.com", 3, 2025, 5, core.DailyEntry{Revenue: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("UpdateDay: %v", err)
	}
	if !r.Totals().TotalRevenue.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected revenue %s", r.Totals().TotalRevenue)
	}

	if err := rt.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNewRuntimeUnknownBackend(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.DataBackend = "sheets"
	if _, err := NewRuntime(context.Background(), SetupLogger("test", "error", "text"), cfg); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
