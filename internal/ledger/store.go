// Package ledger owns the authoritative per-user ledgers in local storage.
//
// All users' ledgers live in one JSON blob under a single namespace, shaped
// as {"<userID>": {"months": {...}}}. The blob is always read and written
// whole.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"salesledger/internal/core"
)

// DefaultNamespace is the key the blob is stored under.
const DefaultNamespace = "salesData"

// Medium is the local key-value persistence the store writes through to.
// Put must replace the value atomically.
type Medium interface {
	Get(ctx context.Context, namespace string) (value []byte, found bool, err error)
	Put(ctx context.Context, namespace string, value []byte) error
}

// Store reads and writes user ledgers. It never returns persistence errors:
// an unreadable blob reads as empty and failed writes are logged. A write is
// skipped when the current blob cannot be read, so other users' ledgers are
// never overwritten.
type Store struct {
	medium    Medium
	namespace string
}

// NewStore creates a store over medium. An empty namespace uses DefaultNamespace.
func NewStore(medium Medium, namespace string) *Store {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Store{medium: medium, namespace: namespace}
}

// LoadLedger returns the persisted ledger for userID, or an empty ledger.
func (s *Store) LoadLedger(ctx context.Context, userID string) core.UserLedger {
	all, err := s.readAll(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read ledger blob, starting empty",
			"user_id", userID,
			"namespace", s.namespace,
			"error", err)
		return core.NewUserLedger()
	}
	raw, ok := all[userID]
	if !ok {
		return core.NewUserLedger()
	}
	var l core.UserLedger
	if err := json.Unmarshal(raw, &l); err != nil {
		slog.WarnContext(ctx, "Unreadable user ledger, starting empty",
			"user_id", userID,
			"namespace", s.namespace,
			"error", err)
		return core.NewUserLedger()
	}
	return l
}

// PersistLedger replaces the stored ledger of userID. Other users' entries
// are kept as they were.
func (s *Store) PersistLedger(ctx context.Context, userID string, l core.UserLedger) {
	encoded, err := json.Marshal(l)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to encode user ledger", "user_id", userID, "error", err)
		return
	}

	all, err := s.readAll(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Skipping ledger write, stored blob unreadable",
			"user_id", userID,
			"namespace", s.namespace,
			"error", err)
		return
	}
	all[userID] = encoded

	blob, err := json.Marshal(all)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to encode ledger blob", "namespace", s.namespace, "error", err)
		return
	}
	if err := s.medium.Put(ctx, s.namespace, blob); err != nil {
		slog.ErrorContext(ctx, "Failed to persist user ledger",
			"user_id", userID,
			"namespace", s.namespace,
			"error", err)
		return
	}
	slog.DebugContext(ctx, "User ledger persisted", "user_id", userID, "months", l.Len(), "bytes", len(blob))
}

// GetOrCreateMonth returns the record for month/year, creating and
// persisting a zero-initialised one when absent.
//
// The check-then-create is not guarded against other processes writing the
// same medium; the last write wins.
func (s *Store) GetOrCreateMonth(ctx context.Context, userID string, month, year int) (core.MonthRecord, error) {
	fresh, err := core.NewMonthRecord(month, year)
	if err != nil {
		return core.MonthRecord{}, err
	}

	l := s.LoadLedger(ctx, userID)
	if r, ok := l.Month(fresh.Key()); ok {
		return r, nil
	}

	s.PersistLedger(ctx, userID, l.With(fresh))
	slog.InfoContext(ctx, "Month initialised", "user_id", userID, "month_key", fresh.Key())
	return fresh, nil
}

// PutMonth stores r in the user's ledger, replacing any record for the same month.
func (s *Store) PutMonth(ctx context.Context, userID string, r core.MonthRecord) {
	if r.IsZero() {
		slog.WarnContext(ctx, "Refusing to store zero month record", "user_id", userID)
		return
	}
	s.PersistLedger(ctx, userID, s.LoadLedger(ctx, userID).With(r))
}

// ListMonthKeys returns the user's month keys in calendar order.
func (s *Store) ListMonthKeys(ctx context.Context, userID string) []string {
	return s.LoadLedger(ctx, userID).Keys()
}

// readAll decodes the blob into per-user raw JSON. A missing blob is an
// empty map; a failed read or an undecodable blob is an error.
func (s *Store) readAll(ctx context.Context) (map[string]json.RawMessage, error) {
	all := map[string]json.RawMessage{}

	data, found, err := s.medium.Get(ctx, s.namespace)
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	if !found || len(data) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("decode blob: %w", err)
	}
	return all, nil
}
