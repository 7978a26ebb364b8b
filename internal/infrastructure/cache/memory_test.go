package cache

import (
	"context"
	"sync"
	"testing"
	"time"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestMemoryCache_Expiry(t *testing.T) {
	clk := &clock{t: time.Date(2026, 1, 22, 8, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(clk.Now)
	ctx := context.Background()

	if err := c.Set(ctx, "fish-types", []byte(`["Tamban"]`), time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	clk.Advance(59 * time.Second)
	if v, ok, _ := c.Get(ctx, "fish-types"); !ok || string(v) != `["Tamban"]` {
		t.Fatalf("expected hit before expiry, got ok=%v v=%s", ok, v)
	}

	clk.Advance(time.Second)
	if _, ok, _ := c.Get(ctx, "fish-types"); ok {
		t.Fatalf("expected miss at expiry")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry should be removed on read")
	}
}

func TestMemoryCache_InvalidatePrefix(t *testing.T) {
	c := NewMemoryCache(nil)
	ctx := context.Background()

	for _, k := range []string{"fish-prices:all", "fish-prices:type:tamban", "fish-types", "other"} {
		if err := c.Set(ctx, k, []byte("x"), time.Minute); err != nil {
			t.Fatalf("Set returned error: %v", err)
		}
	}

	if err := c.InvalidatePrefix(ctx, "fish-prices:"); err != nil {
		t.Fatalf("InvalidatePrefix returned error: %v", err)
	}
	for _, k := range []string{"fish-prices:all", "fish-prices:type:tamban"} {
		if _, ok, _ := c.Get(ctx, k); ok {
			t.Fatalf("%s should be invalidated", k)
		}
	}
	for _, k := range []string{"fish-types", "other"} {
		if _, ok, _ := c.Get(ctx, k); !ok {
			t.Fatalf("%s should survive", k)
		}
	}
}

func TestMemoryCache_ValuesAreCopied(t *testing.T) {
	c := NewMemoryCache(nil)
	ctx := context.Background()

	in := []byte("abc")
	_ = c.Set(ctx, "k", in, time.Minute)
	in[0] = 'z'

	out, _, _ := c.Get(ctx, "k")
	if string(out) != "abc" {
		t.Fatalf("cache aliased the caller's slice: %s", out)
	}
	out[1] = 'z'
	again, _, _ := c.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("cache returned its own slice: %s", again)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	c := NewMemoryCache(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = c.Set(ctx, "fish-prices:all", []byte("v"), time.Minute)
				_, _, _ = c.Get(ctx, "fish-prices:all")
				_ = c.InvalidatePrefix(ctx, "fish-prices:")
			}
		}()
	}
	wg.Wait()
}
