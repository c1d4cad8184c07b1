// Package mirror copies ledger activity to the remote tabular store on a
// best-effort basis. Nothing here ever returns a remote failure to callers:
// failures are logged and reported as Outcome values.
package mirror

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"salesledger/internal/cache"
	"salesledger/internal/core"
	"salesledger/internal/sheets"
)

// ReasonNotConfigured is the Outcome reason when no remote is set.
const ReasonNotConfigured = "remote not configured"

// Outcome reports one mirror attempt.
type Outcome struct {
	OK      bool
	Skipped bool
	Reason  string
}

// Summary reports a MirrorMonth run.
type Summary struct {
	Attempted int
	Succeeded int
	Failed    int
	Skipped   int
}

// Syncer writes ledger days and users to the remote store.
type Syncer struct {
	remote      sheets.Remote
	timeout     time.Duration
	concurrency int
	now         func() time.Time
	// registered remembers users known to be in the Users table.
	registered cache.Cache[bool]
	// regMu serialises lookup-then-append so one process appends a user once.
	regMu sync.Mutex
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithTimeout bounds each remote call. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Syncer) { s.timeout = d }
}

// WithConcurrency caps parallel remote calls during MirrorMonth.
func WithConcurrency(n int) Option {
	return func(s *Syncer) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithClock overrides the registration timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Syncer) { s.now = now }
}

// WithUserCache lets RegisterUser skip the remote lookup for users it has
// already seen registered.
func WithUserCache(c cache.Cache[bool]) Option {
	return func(s *Syncer) { s.registered = c }
}

// NewSyncer returns a Syncer. A nil remote yields a disconnected Syncer whose
// operations are no-ops.
func NewSyncer(remote sheets.Remote, opts ...Option) *Syncer {
	s := &Syncer{remote: remote, concurrency: 4, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Connected reports whether a remote is configured.
func (s *Syncer) Connected() bool {
	return s != nil && s.remote != nil
}

// TestConnection probes the remote without side effects.
func (s *Syncer) TestConnection(ctx context.Context) bool {
	if !s.Connected() {
		return false
	}
	ctx, cancel := s.callContext(ctx)
	defer cancel()
	return s.remote.TestConnection(ctx)
}

// Eligible reports whether a day carries anything worth mirroring.
func Eligible(e core.DailyEntry) bool {
	return e.HasMonetaryActivity()
}

// MirrorDay appends one DailySales row for the day. Days without monetary
// activity are skipped without I/O.
func (s *Syncer) MirrorDay(ctx context.Context, userID, isoDate string, e core.DailyEntry) Outcome {
	if !s.Connected() {
		return Outcome{Reason: ReasonNotConfigured}
	}
	if !Eligible(e) {
		return Outcome{OK: true, Skipped: true}
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	row := core.NewDailySalesRow(userID, isoDate, e)
	if err := s.remote.AppendDailySales(ctx, row); err != nil {
		slog.ErrorContext(ctx, "Failed to mirror daily sales",
			"user_id", userID,
			"date", isoDate,
			"error", err)
		return Outcome{Reason: err.Error()}
	}

	slog.DebugContext(ctx, "Mirrored daily sales",
		"user_id", userID,
		"date", isoDate,
		"revenue", e.Revenue.String())
	return Outcome{OK: true}
}

// MirrorMonth attempts every eligible day of the record independently.
// One day failing never stops the others; nothing is retried.
func (s *Syncer) MirrorMonth(ctx context.Context, userID string, r core.MonthRecord) Summary {
	var sum Summary
	if !s.Connected() {
		slog.WarnContext(ctx, "Mirror month skipped, remote not configured",
			"user_id", userID,
			"month", r.Key())
		return sum
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, d := range r.Days() {
		if !Eligible(d.Entry) {
			sum.Skipped++
			continue
		}
		sum.Attempted++
		d := d
		g.Go(func() error {
			out := s.MirrorDay(gctx, userID, r.ISODate(d.Day), d.Entry)
			mu.Lock()
			defer mu.Unlock()
			if out.OK {
				sum.Succeeded++
			} else {
				sum.Failed++
			}
			// Never cancel siblings.
			return nil
		})
	}
	_ = g.Wait()

	slog.InfoContext(ctx, "Mirrored month",
		"user_id", userID,
		"month", r.Key(),
		"attempted", sum.Attempted,
		"succeeded", sum.Succeeded,
		"failed", sum.Failed,
		"skipped", sum.Skipped)
	return sum
}

// RegisterUser adds the user to the Users table unless already present.
func (s *Syncer) RegisterUser(ctx context.Context, userID, name string) Outcome {
	if !s.Connected() {
		return Outcome{Reason: ReasonNotConfigured}
	}

	s.regMu.Lock()
	defer s.regMu.Unlock()

	if s.registered != nil {
		if _, ok := s.registered.Get(userID); ok {
			return Outcome{OK: true}
		}
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	if _, found, err := s.remote.FindUser(ctx, userID); err != nil {
		slog.ErrorContext(ctx, "Failed to look up remote user", "user_id", userID, "error", err)
		return Outcome{Reason: err.Error()}
	} else if found {
		slog.DebugContext(ctx, "User already registered remotely", "user_id", userID)
		s.remember(userID)
		return Outcome{OK: true}
	}

	if err := s.remote.AppendUser(ctx, core.NewRemoteUser(userID, name, s.now())); err != nil {
		slog.ErrorContext(ctx, "Failed to register remote user", "user_id", userID, "error", err)
		return Outcome{Reason: err.Error()}
	}
	slog.InfoContext(ctx, "Registered remote user", "user_id", userID)
	s.remember(userID)
	return Outcome{OK: true}
}

func (s *Syncer) remember(userID string) {
	if s.registered != nil {
		s.registered.Set(userID, true)
	}
}

// LoadHistory reads every DailySales row of the user. Failures yield an
// empty slice.
func (s *Syncer) LoadHistory(ctx context.Context, userID string) []core.DailySalesRow {
	if !s.Connected() {
		return nil
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	rows, err := s.remote.ListDailySales(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load remote history", "user_id", userID, "error", err)
		return nil
	}
	return rows
}

func (s *Syncer) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}
