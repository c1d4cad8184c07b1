package redisstore

import (
	"context"
	"os"
	"testing"
)

func TestKey(t *testing.T) {
	if got := Key("salesData"); got != "salesledger:salesData" {
		t.Fatalf("Key = %q", got)
	}
}

func TestNewInvalidURL(t *testing.T) {
	if _, err := New(context.Background(), "not-a-url"); err == nil {
		t.Fatal("expected error for invalid url")
	}
}

// Runs only when a Redis server is available, e.g. REDIS_TEST_URL=redis://localhost:6379/15
func TestStoreRoundTrip(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	ctx := context.Background()
	s, err := New(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer s.Close()

	ns := "test-" + t.Name()
	if _, found, err := s.Get(ctx, ns); err != nil || found {
		t.Fatalf("expected missing key, found=%v err=%v", found, err)
	}
	if err := s.Put(ctx, ns, []byte(`{"x":{}}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	v, found, err := s.Get(ctx, ns)
	if err != nil || !found || string(v) != `{"x":{}}` {
		t.Fatalf("get = %q found=%v err=%v", v, found, err)
	}
	s.rdb.Del(ctx, Key(ns))
}
