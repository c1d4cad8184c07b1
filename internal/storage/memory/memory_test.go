package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStoreGetPut(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, found, err := s.Get(ctx, "ns"); found || err != nil {
		t.Fatalf("expected empty store, found=%v err=%v", found, err)
	}
	if err := s.Put(ctx, "ns", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	v, found, err := s.Get(ctx, "ns")
	if err != nil || !found || string(v) != `{"a":1}` {
		t.Fatalf("unexpected get: %q found=%v err=%v", v, found, err)
	}

	// Returned slices are copies
	v[0] = 'X'
	if string(s.Raw("ns")) != `{"a":1}` {
		t.Fatal("stored value was mutated through returned slice")
	}
}

func TestStoreErrorHooks(t *testing.T) {
	s := New()
	boom := errors.New("boom")
	s.SetErrors(boom, boom)
	if _, _, err := s.Get(context.Background(), "ns"); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if err := s.Put(context.Background(), "ns", nil); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	s := NewFromFile("salesData", path)
	if string(s.Raw("salesData")) != `{}` {
		t.Fatalf("seed not loaded: %q", s.Raw("salesData"))
	}

	// Missing file -> empty store
	s = NewFromFile("salesData", filepath.Join(dir, "missing.json"))
	if len(s.Raw("salesData")) != 0 {
		t.Fatal("expected empty store for missing seed")
	}
}
