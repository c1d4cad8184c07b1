// Package services holds the ledger facade used by the binaries.
package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"salesledger/internal/core"
	"salesledger/internal/ledger"
	"salesledger/internal/mirror"
)

// LedgerService applies edits to a user's ledger, persists them locally and
// hands qualifying days to the mirror. Every call names its user explicitly.
type LedgerService struct {
	store      *ledger.Store
	dispatcher mirror.Dispatcher
	syncer     *mirror.Syncer

	// mu serialises read-modify-write cycles on the store.
	mu sync.Mutex
}

// NewLedgerService wires the facade. dispatcher and syncer may be nil, in
// which case nothing is mirrored.
func NewLedgerService(store *ledger.Store, dispatcher mirror.Dispatcher, syncer *mirror.Syncer) *LedgerService {
	return &LedgerService{
		store:      store,
		dispatcher: dispatcher,
		syncer:     syncer,
	}
}

// GetMonth returns the month, creating it on first access.
func (s *LedgerService) GetMonth(ctx context.Context, userID string, month, year int) (core.MonthRecord, error) {
	if userID == "" {
		return core.NewMonthRecord(month, year)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.GetOrCreateMonth(ctx, userID, month, year)
}

// UpdateDay replaces one day's entry and schedules it for mirroring. It
// returns once the local write is done, without waiting for the mirror.
func (s *LedgerService) UpdateDay(ctx context.Context, userID string, month, year, day int, e core.DailyEntry) (core.MonthRecord, error) {
	if userID == "" {
		return core.NewMonthRecord(month, year)
	}
	updated, err := s.mutate(ctx, userID, month, year, func(r core.MonthRecord) (core.MonthRecord, error) {
		return r.WithDay(day, e)
	})
	if err != nil {
		return core.MonthRecord{}, err
	}

	s.dispatch(mirror.Job{UserID: userID, Date: updated.ISODate(day), Entry: e})

	slog.InfoContext(ctx, "Day updated",
		"user_id", userID,
		"month_key", updated.Key(),
		"day", day,
		"total_revenue", updated.Totals().TotalRevenue.String())
	return updated, nil
}

// UpdateTaxPercentage sets the month's tax rate. Nothing is mirrored.
func (s *LedgerService) UpdateTaxPercentage(ctx context.Context, userID string, month, year int, pct decimal.Decimal) (core.MonthRecord, error) {
	if userID == "" {
		return core.NewMonthRecord(month, year)
	}
	updated, err := s.mutate(ctx, userID, month, year, func(r core.MonthRecord) (core.MonthRecord, error) {
		return r.WithTaxPercentage(pct)
	})
	if err != nil {
		return core.MonthRecord{}, err
	}
	slog.InfoContext(ctx, "Tax percentage updated",
		"user_id", userID,
		"month_key", updated.Key(),
		"tax_percentage", pct.String())
	return updated, nil
}

// UpdateDaysActive sets how many days the user worked in the month. Nothing
// is mirrored.
func (s *LedgerService) UpdateDaysActive(ctx context.Context, userID string, month, year, days int) (core.MonthRecord, error) {
	if userID == "" {
		return core.NewMonthRecord(month, year)
	}
	updated, err := s.mutate(ctx, userID, month, year, func(r core.MonthRecord) (core.MonthRecord, error) {
		return r.WithDaysActive(days)
	})
	if err != nil {
		return core.MonthRecord{}, err
	}
	slog.InfoContext(ctx, "Days active updated",
		"user_id", userID,
		"month_key", updated.Key(),
		"days_active", days)
	return updated, nil
}

// SyncMonth mirrors every eligible day of the stored month and waits for the
// result.
func (s *LedgerService) SyncMonth(ctx context.Context, userID string, month, year int) (mirror.Summary, error) {
	if userID == "" {
		return mirror.Summary{}, nil
	}
	r, err := s.GetMonth(ctx, userID, month, year)
	if err != nil {
		return mirror.Summary{}, err
	}
	if s.syncer == nil {
		return mirror.Summary{}, nil
	}
	return s.syncer.MirrorMonth(ctx, userID, r), nil
}

// ListMonths returns every stored month of the user in calendar order.
func (s *LedgerService) ListMonths(ctx context.Context, userID string) []core.MonthRecord {
	if userID == "" {
		return nil
	}
	l := s.store.LoadLedger(ctx, userID)
	out := make([]core.MonthRecord, 0, l.Len())
	for _, k := range l.Keys() {
		r, _ := l.Month(k)
		out = append(out, r)
	}
	return out
}

// mutate runs one serialised read-modify-write. apply is tried on a blank
// month first so invalid input never creates or touches stored state.
func (s *LedgerService) mutate(ctx context.Context, userID string, month, year int, apply func(core.MonthRecord) (core.MonthRecord, error)) (core.MonthRecord, error) {
	blank, err := core.NewMonthRecord(month, year)
	if err != nil {
		return core.MonthRecord{}, err
	}
	if _, err := apply(blank); err != nil {
		return core.MonthRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.store.GetOrCreateMonth(ctx, userID, month, year)
	if err != nil {
		return core.MonthRecord{}, err
	}
	updated, err := apply(r)
	if err != nil {
		return core.MonthRecord{}, err
	}
	s.store.PutMonth(ctx, userID, updated)
	return updated, nil
}

func (s *LedgerService) dispatch(job mirror.Job) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Dispatch(job)
}
