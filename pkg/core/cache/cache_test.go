package cache

import (
	"errors"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(maxItems int) (*Cache[string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 12, 6, 12, 0, 0, 0, time.UTC)}
	return New[string](Config{MaxItems: maxItems, TTL: time.Second, Now: clock.Now}), clock
}

func TestGetSet(t *testing.T) {
	c, clock := newTestCache(10)

	if _, ok := c.Get("a"); ok {
		t.Error("empty cache should miss")
	}
	c.Set("a", "1")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Errorf("Get(a) = %q, %v", v, ok)
	}

	clock.Advance(time.Second)
	if _, ok := c.Get("a"); ok {
		t.Error("entry should expire after the TTL")
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d, expired entry not dropped", c.Size())
	}

	hits, misses, rate := c.Stats()
	if hits != 1 || misses != 2 {
		t.Errorf("Stats() = %d hits, %d misses", hits, misses)
	}
	if rate < 33 || rate > 34 {
		t.Errorf("hit rate = %v", rate)
	}
}

func TestSetWithTTL(t *testing.T) {
	c, clock := newTestCache(10)
	c.SetWithTTL("forever", "x", -1)
	c.SetWithTTL("long", "y", time.Hour)

	clock.Advance(time.Minute)
	if _, ok := c.Get("forever"); !ok {
		t.Error("negative TTL should never expire")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("custom TTL ignored")
	}
}

func TestEviction(t *testing.T) {
	t.Run("expired entries first", func(t *testing.T) {
		c, clock := newTestCache(2)
		c.Set("a", "1")
		c.SetWithTTL("b", "2", time.Hour)
		clock.Advance(2 * time.Second)

		c.Set("c", "3")
		if _, ok := c.Get("b"); !ok {
			t.Error("live entry evicted")
		}
		if _, ok := c.Get("c"); !ok {
			t.Error("new entry missing")
		}
	})

	t.Run("earliest expiration", func(t *testing.T) {
		c, _ := newTestCache(2)
		c.SetWithTTL("late", "1", time.Hour)
		c.SetWithTTL("early", "2", time.Minute)

		c.Set("new", "3")
		if _, ok := c.Get("early"); ok {
			t.Error("entry expiring first should be evicted")
		}
		if c.Size() != 2 {
			t.Errorf("Size() = %d", c.Size())
		}
	})

	t.Run("overwrite does not evict", func(t *testing.T) {
		c, _ := newTestCache(2)
		c.Set("a", "1")
		c.Set("b", "2")
		c.Set("a", "3")
		if c.Size() != 2 {
			t.Errorf("Size() = %d", c.Size())
		}
		if v, _ := c.Get("b"); v != "2" {
			t.Error("b evicted on overwrite")
		}
	})
}

func TestGetOrLoad(t *testing.T) {
	c, clock := newTestCache(10)
	calls := 0
	load := func() (string, error) {
		calls++
		return "v", nil
	}

	for i := 0; i < 3; i++ {
		if v, err := c.GetOrLoad("k", load); err != nil || v != "v" {
			t.Fatalf("GetOrLoad() = %q, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("load called %d times, want 1", calls)
	}

	clock.Advance(time.Second)
	c.GetOrLoad("k", load)
	if calls != 2 {
		t.Errorf("load called %d times after expiry, want 2", calls)
	}

	boom := errors.New("boom")
	c.Delete("k")
	if _, err := c.GetOrLoad("k", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("errors must not be cached")
	}

	c.Clear()
	if c.Size() != 0 {
		t.Error("Clear() left entries")
	}
}
