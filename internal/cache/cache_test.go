package cache

import (
	"testing"
	"time"
)

func TestPutAndGet(t *testing.T) {
	c := New(5 * time.Minute)

	c.Put("hello", "Hi there!")

	got, ok := c.Get("hello")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != "Hi there!" {
		t.Errorf("unexpected value: %s", got)
	}

	if _, ok := c.Get("other"); ok {
		t.Error("expected cache miss for unknown key")
	}
}

func TestExpiry(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	c := NewWithClock(5*time.Minute, clock)

	c.Put("hello", "Hi there!")

	// Just inside the TTL window
	now = now.Add(5 * time.Minute)
	if _, ok := c.Get("hello"); !ok {
		t.Error("expected hit at exactly TTL")
	}

	// Just past the TTL window
	now = now.Add(time.Second)
	if _, ok := c.Get("hello"); ok {
		t.Error("expected miss after TTL elapsed")
	}
	if c.Len() != 0 {
		t.Errorf("expected expired entry to be dropped, have %d entries", c.Len())
	}
}

func TestOverwrite(t *testing.T) {
	base := time.Now()
	now := base
	c := NewWithClock(5*time.Minute, func() time.Time { return now })

	c.Put("hello", "first")
	now = now.Add(10 * time.Minute)
	c.Put("hello", "second")

	got, ok := c.Get("hello")
	if !ok {
		t.Fatal("expected hit after overwrite")
	}
	if got != "second" {
		t.Errorf("expected overwritten value, got %s", got)
	}
}

func TestStats(t *testing.T) {
	c := New(time.Minute)

	c.Put("a", "1")
	c.Get("a")
	c.Get("b")

	hits, misses := c.Stats()
	if hits != 1 {
		t.Errorf("expected 1 hit, got %d", hits)
	}
	if misses != 1 {
		t.Errorf("expected 1 miss, got %d", misses)
	}
}

func TestPurge(t *testing.T) {
	c := New(time.Minute)
	c.Put("a", "1")
	c.Put("b", "2")

	c.Purge()

	if c.Len() != 0 {
		t.Errorf("expected empty cache after purge, have %d", c.Len())
	}
}
