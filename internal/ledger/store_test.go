package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"salesledger/internal/core"
	"salesledger/internal/storage/memory"
)

func newTestStore() (*Store, *memory.Store) {
	m := memory.New()
	return NewStore(m, ""), m
}

func TestLoadLedgerEmpty(t *testing.T) {
	s, _ := newTestStore()
	l := s.LoadLedger(context.Background(), "ana@example.com")
	if l.Len() != 0 {
		t.Fatalf("expected empty ledger, got %v", l.Keys())
	}
}

func TestLoadLedgerCorruptBlob(t *testing.T) {
	s, m := newTestStore()
	ctx := context.Background()
	_ = m.Put(ctx, DefaultNamespace, []byte(`{not json`))

	if l := s.LoadLedger(ctx, "ana@example.com"); l.Len() != 0 {
		t.Fatalf("expected empty ledger for corrupt blob, got %v", l.Keys())
	}
}

func TestLoadLedgerReadFailure(t *testing.T) {
	s, m := newTestStore()
	m.SetErrors(errors.New("disk gone"), nil)
	if l := s.LoadLedger(context.Background(), "ana@example.com"); l.Len() != 0 {
		t.Fatalf("expected empty ledger, got %v", l.Keys())
	}
}

func TestGetOrCreateMonthPersistsAndIsIdempotent(t *testing.T) {
	s, m := newTestStore()
	ctx := context.Background()

	first, err := s.GetOrCreateMonth(ctx, "ana@example.com", 3, 2025)
	if err != nil {
		t.Fatalf("GetOrCreateMonth: %v", err)
	}
	if first.DayCount() != 31 || !first.Totals().TotalRevenue.IsZero() {
		t.Fatalf("unexpected new month: days=%d revenue=%s", first.DayCount(), first.Totals().TotalRevenue)
	}
	if len(m.Raw(DefaultNamespace)) == 0 {
		t.Fatal("new month was not persisted")
	}

	blob := string(m.Raw(DefaultNamespace))
	second, err := s.GetOrCreateMonth(ctx, "ana@example.com", 3, 2025)
	if err != nil {
		t.Fatalf("GetOrCreateMonth: %v", err)
	}
	if second.Key() != first.Key() || !second.Totals().Equal(first.Totals()) || second.DayCount() != first.DayCount() {
		t.Fatal("repeated GetOrCreateMonth returned a different record")
	}
	if string(m.Raw(DefaultNamespace)) != blob {
		t.Fatal("second call rewrote the blob")
	}
}

func TestGetOrCreateMonthInvalidMonth(t *testing.T) {
	s, _ := newTestStore()
	if _, err := s.GetOrCreateMonth(context.Background(), "u", 13, 2025); !errors.Is(err, core.ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
}

func TestPersistLedgerKeepsOtherUsers(t *testing.T) {
	s, m := newTestStore()
	ctx := context.Background()

	// Another user's entry is preserved byte for byte, even if it would not decode.
	_ = m.Put(ctx, DefaultNamespace, []byte(`{"bob@example.com":{"months":{"weird":1}}}`))

	rec, _ := core.NewMonthRecord(1, 2025)
	rec, _ = rec.WithDay(2, core.DailyEntry{Revenue: decimal.NewFromInt(40)})
	s.PutMonth(ctx, "ana@example.com", rec)

	var all map[string]json.RawMessage
	if err := json.Unmarshal(m.Raw(DefaultNamespace), &all); err != nil {
		t.Fatalf("decode blob: %v", err)
	}
	if string(all["bob@example.com"]) != `{"months":{"weird":1}}` {
		t.Fatalf("other user's data changed: %s", all["bob@example.com"])
	}

	got := s.LoadLedger(ctx, "ana@example.com")
	r, ok := got.Month("2025-01")
	if !ok {
		t.Fatal("stored month missing")
	}
	if !r.Totals().TotalRevenue.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("revenue = %s", r.Totals().TotalRevenue)
	}
}

func TestPersistLedgerFailureIsSwallowed(t *testing.T) {
	s, m := newTestStore()
	m.SetErrors(nil, errors.New("read-only"))

	rec, err := s.GetOrCreateMonth(context.Background(), "ana@example.com", 2, 2024)
	if err != nil {
		t.Fatalf("persistence failure leaked to caller: %v", err)
	}
	if rec.DayCount() != 29 {
		t.Fatalf("expected in-memory record despite failed write, got %d days", rec.DayCount())
	}
}

func TestPersistLedgerReadFailureKeepsOtherUsers(t *testing.T) {
	s, m := newTestStore()
	ctx := context.Background()

	for _, month := range []int{1, 2} {
		if _, err := s.GetOrCreateMonth(ctx, "ana@example.com", month, 2025); err != nil {
			t.Fatalf("GetOrCreateMonth: %v", err)
		}
	}
	before := string(m.Raw(DefaultNamespace))

	m.SetErrors(errors.New("database is locked"), nil)
	if _, err := s.GetOrCreateMonth(ctx, "bob@example.com", 3, 2025); err != nil {
		t.Fatalf("GetOrCreateMonth: %v", err)
	}
	m.SetErrors(nil, nil)

	if got := string(m.Raw(DefaultNamespace)); got != before {
		t.Fatalf("blob rewritten during read failure:\nbefore %s\nafter  %s", before, got)
	}
	if keys := s.ListMonthKeys(ctx, "ana@example.com"); len(keys) != 2 {
		t.Fatalf("expected ana's 2 months to survive, got %v", keys)
	}
}

func TestPersistLedgerCorruptBlobIsNotOverwritten(t *testing.T) {
	s, m := newTestStore()
	ctx := context.Background()
	_ = m.Put(ctx, DefaultNamespace, []byte(`{not json`))

	rec, _ := core.NewMonthRecord(4, 2025)
	s.PutMonth(ctx, "ana@example.com", rec)

	if got := string(m.Raw(DefaultNamespace)); got != `{not json` {
		t.Fatalf("corrupt blob was replaced with %s", got)
	}
}

func TestListMonthKeys(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()
	for _, m := range []int{11, 2, 7} {
		if _, err := s.GetOrCreateMonth(ctx, "u", m, 2025); err != nil {
			t.Fatalf("GetOrCreateMonth: %v", err)
		}
	}
	keys := s.ListMonthKeys(ctx, "u")
	want := []string{"2025-02", "2025-07", "2025-11"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v", keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
}

func TestCustomNamespace(t *testing.T) {
	m := memory.New()
	s := NewStore(m, "tenantA")
	if _, err := s.GetOrCreateMonth(context.Background(), "u", 1, 2025); err != nil {
		t.Fatal(err)
	}
	if len(m.Raw("tenantA")) == 0 || len(m.Raw(DefaultNamespace)) != 0 {
		t.Fatal("blob written under the wrong namespace")
	}
}
