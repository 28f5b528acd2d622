package cache_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	cache "github.com/krisalay/coalescing-cache"
	"github.com/krisalay/coalescing-cache/policy"
)

func newBenchmarkCache() *cache.CoalescedCache {
	table := policy.NewTable(map[string]time.Duration{
		"alchemy_price": 5 * time.Minute,
	}, time.Minute)

	return cache.New(table, nil)
}

//
// ================= SINGLE THREAD BENCH =================
//

func BenchmarkExecuteHit(b *testing.B) {
	ctx := context.Background()
	c := newBenchmarkCache()

	producer := func(context.Context) (any, error) { return "v", nil }
	c.Execute(ctx, "alchemy_price:ETH", "alchemy_price", producer)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Execute(ctx, "alchemy_price:ETH", "alchemy_price", producer)
	}
}

func BenchmarkExecuteMiss(b *testing.B) {
	ctx := context.Background()
	c := newBenchmarkCache()

	producer := func(context.Context) (any, error) { return "v", nil }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// A distinct key per iteration keeps every call on the miss path.
		c.Execute(ctx, fmt.Sprintf("alchemy_price:%d", i), "alchemy_price", producer)
	}
}

//
// ================= PARALLEL BENCH =================
//

func BenchmarkExecuteHitParallel(b *testing.B) {
	ctx := context.Background()
	c := newBenchmarkCache()

	producer := func(context.Context) (any, error) { return "v", nil }
	c.Execute(ctx, "alchemy_price:ETH", "alchemy_price", producer)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.Execute(ctx, "alchemy_price:ETH", "alchemy_price", producer)
		}
	})
}

func BenchmarkStats(b *testing.B) {
	ctx := context.Background()
	c := newBenchmarkCache()

	producer := func(context.Context) (any, error) { return "v", nil }
	for i := 0; i < 1000; i++ {
		c.Execute(ctx, fmt.Sprintf("alchemy_price:%d", i), "alchemy_price", producer)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Stats()
	}
}
