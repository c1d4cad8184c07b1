package cache

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newTestCache(size int, ttl time.Duration) (*LRUCache[string], *fakeClock) {
	clk := &fakeClock{t: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](size, ttl)
	c.now = clk.now
	return c, clk
}

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Hour)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a")
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Fatalf("%s should still be cached", k)
		}
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	c, clk := newTestCache(10, time.Minute)
	c.Set("ana@example.com", "registered")
	c.Set("bob@example.com", "registered")

	clk.t = clk.t.Add(30 * time.Second)
	c.Set("bob@example.com", "registered")

	clk.t = clk.t.Add(45 * time.Second)
	if _, ok := c.Get("ana@example.com"); ok {
		t.Fatal("ana should have expired")
	}
	if v, ok := c.Get("bob@example.com"); !ok || v != "registered" {
		t.Fatal("bob was refreshed and should still be cached")
	}

	clk.t = clk.t.Add(time.Hour)
	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("CleanExpired removed %d, want 1", n)
	}
	if c.Size() != 0 {
		t.Fatalf("Size = %d, want 0", c.Size())
	}
}

func TestJanitorSweep(t *testing.T) {
	c, clk := newTestCache(10, time.Minute)
	c.Set("a", "1")
	j := NewJanitor()
	j.Register(c)

	clk.t = clk.t.Add(2 * time.Minute)
	if n := j.Sweep(); n != 1 {
		t.Fatalf("Sweep removed %d, want 1", n)
	}

	j.Start(time.Millisecond)
	j.Start(time.Millisecond)
	j.Stop()
	j.Stop()
}
