package mirror

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"salesledger/internal/core"
	"salesledger/internal/sheets/memory"
)

func TestAsyncDispatcherRunsJobs(t *testing.T) {
	remote := memory.New()
	d := NewAsyncDispatcher(SyncHandler(NewSyncer(remote)), 2, 8)

	for _, date := range []string{"2025-03-01", "2025-03-02", "2025-03-03"} {
		d.Dispatch(Job{UserID: "ana@example.com", Date: date, Entry: core.DailyEntry{Revenue: dec("10")}})
	}
	if err := d.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if got := len(remote.Rows()); got != 3 {
		t.Fatalf("expected 3 rows after drain, got %d", got)
	}
}

func TestSyncHandlerRegistersUserForEligibleDays(t *testing.T) {
	tests := []struct {
		name      string
		entry     core.DailyEntry
		wantUsers int
		wantRows  int
	}{
		{"eligible", core.DailyEntry{Revenue: dec("10")}, 1, 1},
		{"no monetary activity", core.DailyEntry{SalesCount: 2}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := memory.New()
			h := SyncHandler(NewSyncer(remote))
			if err := h(context.Background(), Job{UserID: "ana@example.com", Date: "2025-03-01", Entry: tt.entry}); err != nil {
				t.Fatalf("handler: %v", err)
			}
			if got := len(remote.Users()); got != tt.wantUsers {
				t.Fatalf("expected %d users, got %d", tt.wantUsers, got)
			}
			if got := len(remote.Rows()); got != tt.wantRows {
				t.Fatalf("expected %d rows, got %d", tt.wantRows, got)
			}
		})
	}
}

func TestSyncHandlerRegistersUserOnceAcrossWorkers(t *testing.T) {
	remote := memory.New()
	d := NewAsyncDispatcher(SyncHandler(NewSyncer(remote)), 4, 16)

	for day := 1; day <= 6; day++ {
		d.Dispatch(Job{UserID: "ana@example.com", Date: fmt.Sprintf("2025-03-%02d", day), Entry: core.DailyEntry{Revenue: dec("10")}})
	}
	if err := d.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if got := len(remote.Users()); got != 1 {
		t.Fatalf("expected 1 user, got %d", got)
	}
	if got := len(remote.Rows()); got != 6 {
		t.Fatalf("expected 6 rows, got %d", got)
	}
}

func TestAsyncDispatcherDoesNotBlockOnSlowHandler(t *testing.T) {
	release := make(chan struct{})
	var handled atomic.Int32
	d := NewAsyncDispatcher(func(ctx context.Context, job Job) error {
		<-release
		handled.Add(1)
		return nil
	}, 1, 1)

	start := time.Now()
	// One job in flight, one queued, the rest dropped.
	for i := 0; i < 5; i++ {
		d.Dispatch(Job{UserID: "ana@example.com"})
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("Dispatch blocked for %s", elapsed)
	}

	close(release)
	if err := d.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if n := handled.Load(); n < 1 || n > 2 {
		t.Fatalf("expected 1 or 2 handled jobs, got %d", n)
	}
}

func TestAsyncDispatcherShutdownTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	var once sync.Once
	started := make(chan struct{})
	d := NewAsyncDispatcher(func(ctx context.Context, job Job) error {
		once.Do(func() { close(started) })
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}, 1, 1)

	d.Dispatch(Job{UserID: "ana@example.com"})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := d.Shutdown(ctx); err == nil {
		t.Fatal("expected shutdown to time out")
	}
}

func TestDispatchAfterShutdownIsDropped(t *testing.T) {
	var handled atomic.Int32
	d := NewAsyncDispatcher(func(ctx context.Context, job Job) error {
		handled.Add(1)
		return nil
	}, 1, 1)
	_ = d.Shutdown(context.Background())

	d.Dispatch(Job{UserID: "ana@example.com"})
	if handled.Load() != 0 {
		t.Fatal("job ran after shutdown")
	}
}
