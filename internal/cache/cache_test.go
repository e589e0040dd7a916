package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

type sample struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

func TestMemoryCacheRoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "top", sample{Name: "Kopi", Total: 3}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got sample
	ok, err := c.Get(ctx, "top", &got)
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if got.Name != "Kopi" || got.Total != 3 {
		t.Fatalf("unexpected value %+v", got)
	}

	now = now.Add(time.Minute)
	ok, err = c.Get(ctx, "top", &got)
	if err != nil || ok {
		t.Fatalf("expected expiry, ok=%v err=%v", ok, err)
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	_ = c.Set(ctx, "a", 1, 0)
	_ = c.Set(ctx, "b", 2, 0)
	if err := c.Delete(ctx, "a", "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var n int
	if ok, _ := c.Get(ctx, "a", &n); ok {
		t.Fatalf("expected a deleted")
	}
}

func TestNoopCacheNeverHits(t *testing.T) {
	var c Cache = NoopCache{}
	_ = c.Set(context.Background(), "k", 1, time.Minute)
	var n int
	if ok, err := c.Get(context.Background(), "k", &n); ok || err != nil {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}
}

func TestRedisCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("POS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set POS_TEST_REDIS_ADDR to run redis integration test")
	}

	ctx := context.Background()
	c := NewRedisCache(addr, os.Getenv("POS_TEST_REDIS_PASSWORD"), 0)
	t.Cleanup(func() {
		_ = c.Delete(ctx, "it:sample")
		_ = c.Close()
	})
	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	if err := c.Set(ctx, "it:sample", sample{Name: "Teh", Total: 9}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var got sample
	ok, err := c.Get(ctx, "it:sample", &got)
	if err != nil || !ok || got.Total != 9 {
		t.Fatalf("unexpected get result ok=%v err=%v value=%+v", ok, err, got)
	}
}
