// Package memory provides an in-process ledger medium, used for tests and
// DATA_BACKEND=memory.
package memory

import (
	"context"
	"os"
	"sync"
)

// Store is an in-process ledger medium.
type Store struct {
	mu   sync.Mutex
	data map[string][]byte

	// GetErr and PutErr, when set, are returned instead of touching data.
	GetErr error
	PutErr error
}

// New returns an empty store.
func New() *Store {
	return &Store{data: map[string][]byte{}}
}

// NewFromFile seeds namespace with the contents of path, if it exists.
func NewFromFile(namespace, path string) *Store {
	s := New()
	if b, err := os.ReadFile(path); err == nil && len(b) > 0 {
		s.data[namespace] = b
	}
	return s
}

// Get implements ledger.Medium. The returned slice is a copy.
func (s *Store) Get(_ context.Context, namespace string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, false, s.GetErr
	}
	v, ok := s.data[namespace]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Put implements ledger.Medium.
func (s *Store) Put(_ context.Context, namespace string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PutErr != nil {
		return s.PutErr
	}
	s.data[namespace] = append([]byte(nil), value...)
	return nil
}

// Raw returns a copy of the stored bytes, bypassing the error hooks.
func (s *Store) Raw(namespace string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data[namespace]...)
}

// SetErrors replaces the failure hooks under the store's lock.
func (s *Store) SetErrors(getErr, putErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GetErr = getErr
	s.PutErr = putErr
}
