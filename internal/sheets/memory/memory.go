// Package memory is an in-process sheets.Remote for tests and offline runs.
package memory

import (
	"context"
	"sync"

	"salesledger/internal/core"
	ports "salesledger/internal/sheets"
)

// Store keeps users and DailySales rows in slices.
type Store struct {
	mu    sync.Mutex
	users []core.RemoteUser
	rows  []core.DailySalesRow

	// err, when set, fails every call.
	err error
	// block, when set, makes write calls wait until it is closed or ctx ends.
	block chan struct{}

	appendUserCalls  int
	appendSalesCalls int
}

var _ ports.Remote = (*Store)(nil)

// New returns an empty remote.
func New() *Store {
	return &Store{}
}

// SetError makes every subsequent call fail with err (nil clears it).
func (s *Store) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Block makes write calls hang until the returned release func is called.
func (s *Store) Block() (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.block = ch
	s.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

func (s *Store) wait(ctx context.Context) error {
	s.mu.Lock()
	ch := s.block
	s.mu.Unlock()
	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FindUser matches userID against the id or email column.
func (s *Store) FindUser(_ context.Context, userID string) (core.RemoteUser, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return core.RemoteUser{}, false, s.err
	}
	for _, u := range s.users {
		if u.ID == userID || u.Email == userID {
			return u, true, nil
		}
	}
	return core.RemoteUser{}, false, nil
}

func (s *Store) AppendUser(ctx context.Context, u core.RemoteUser) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendUserCalls++
	if s.err != nil {
		return s.err
	}
	s.users = append(s.users, u)
	return nil
}

func (s *Store) AppendDailySales(ctx context.Context, row core.DailySalesRow) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendSalesCalls++
	if s.err != nil {
		return s.err
	}
	s.rows = append(s.rows, row)
	return nil
}

func (s *Store) ListDailySales(_ context.Context, userID string) ([]core.DailySalesRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []core.DailySalesRow
	for _, r := range s.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

// TestConnection fails while an error is set.
func (s *Store) TestConnection(_ context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err == nil
}

// Users returns a copy of the registered users.
func (s *Store) Users() []core.RemoteUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.RemoteUser(nil), s.users...)
}

// Rows returns a copy of every appended DailySales row.
func (s *Store) Rows() []core.DailySalesRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.DailySalesRow(nil), s.rows...)
}

// Calls reports how many append attempts reached the store, failed ones included.
func (s *Store) Calls() (users, sales int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendUserCalls, s.appendSalesCalls
}
