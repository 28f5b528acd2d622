package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	cache "github.com/krisalay/coalescing-cache"
	"github.com/krisalay/coalescing-cache/metrics"
	"github.com/krisalay/coalescing-cache/policy"
)

// ================= FAKE UPSTREAM =================

// Upstream simulates a rate-limited third-party API.
type Upstream struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (u *Upstream) FetchPrice(symbol string) (any, error) {
	u.mu.Lock()
	u.calls++
	failing := u.fail
	u.mu.Unlock()

	fmt.Println("UPSTREAM → fetch price:", symbol)
	time.Sleep(50 * time.Millisecond) // pretend network latency

	if failing {
		return nil, errors.New("upstream: 429 too many requests")
	}
	return fmt.Sprintf("price-of-%s", symbol), nil
}

func (u *Upstream) SetFailing(f bool) {
	u.mu.Lock()
	u.fail = f
	u.mu.Unlock()
}

func (u *Upstream) Calls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls
}

// ================= MAIN =================

func main() {
	ctx := context.Background()

	fmt.Println("\n==================== SYSTEM BOOT ====================")

	// ---------------- Category Policy ----------------
	fmt.Println("CATEGORY alchemy_price : max-age 5m")
	fmt.Println("CATEGORY token_info    : max-age 1h")
	fmt.Println("CATEGORY <default>     : max-age 200ms")

	table := policy.NewTable(map[string]time.Duration{
		"alchemy_price": 5 * time.Minute,
		"token_info":    time.Hour,
	}, 200*time.Millisecond)

	// ---------------- Metrics ----------------
	counters := metrics.NewCounters()

	// ---------------- Cache ----------------
	c := cache.New(table, counters)
	upstream := &Upstream{}

	producer := func(symbol string) func(context.Context) (any, error) {
		return func(context.Context) (any, error) {
			return upstream.FetchPrice(symbol)
		}
	}

	// ====================================================
	fmt.Println("\n==================== 1) CACHE MISS ====================")
	v, _ := c.Execute(ctx, "alchemy_price:ETH", "alchemy_price", producer("ETH"))
	fmt.Println("CACHE  → GET alchemy_price:ETH =", v)

	// ====================================================
	fmt.Println("\n==================== 2) CACHE HIT ====================")
	v, _ = c.Execute(ctx, "alchemy_price:ETH", "alchemy_price", producer("ETH"))
	fmt.Println("CACHE  → GET alchemy_price:ETH =", v)

	// ====================================================
	fmt.Println("\n==================== 3) COALESCING ====================")

	wg := sync.WaitGroup{}
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			val, _ := c.Execute(ctx, "alchemy_price:BTC", "alchemy_price", producer("BTC"))
			fmt.Printf("GOROUTINE-%d → GET alchemy_price:BTC = %v\n", id, val)
		}(i)
	}
	wg.Wait()
	fmt.Println("UPSTREAM → total calls so far:", upstream.Calls())

	// ====================================================
	fmt.Println("\n==================== 4) STALE FALLBACK ====================")

	// "spot" is not a configured category, so the default 200ms applies.
	v, _ = c.Execute(ctx, "spot:DOGE", "spot", producer("DOGE"))
	fmt.Println("CACHE  → GET spot:DOGE =", v)

	time.Sleep(300 * time.Millisecond) // let the entry go stale
	upstream.SetFailing(true)
	v, err := c.Execute(ctx, "spot:DOGE", "spot", producer("DOGE"))
	fmt.Println("CACHE  → GET spot:DOGE during outage =", v, "err =", err)
	upstream.SetFailing(false)

	// ====================================================
	fmt.Println("\n==================== 5) EXPIRY SWEEP ====================")

	removed := c.SweepExpired(time.Now().Add(6 * time.Minute))
	fmt.Println("CACHE  → swept", removed, "entries at t+6m")

	// ====================================================
	fmt.Println("\n==================== 6) STATS ====================")

	c.Execute(ctx, "token_info:USDC", "token_info", producer("USDC"))
	stats := c.Stats()
	fmt.Println("STATS  → totalEntries:", stats.TotalEntries)
	fmt.Println("STATS  → inFlight    :", stats.InFlight)
	for category, cs := range stats.ByCategory {
		fmt.Printf("STATS  → %-14s count=%d avgAge=%.1fs\n", category, cs.Count, cs.AverageAgeSeconds)
	}

	// ====================================================
	fmt.Println("\n==================== 7) CLEAR ====================")

	fmt.Println("CACHE  → cleared", c.Clear(), "entries")
	v, _ = c.Execute(ctx, "alchemy_price:ETH", "alchemy_price", producer("ETH"))
	fmt.Println("CACHE  → GET alchemy_price:ETH after clear =", v)

	// ====================================================
	snap := counters.Snapshot()
	fmt.Println("\n==================== METRICS ====================")
	fmt.Printf("HITS            : %d\n", snap.Hits)
	fmt.Printf("MISSES          : %d\n", snap.Misses)
	fmt.Printf("COALESCED       : %d\n", snap.Coalesced)
	fmt.Printf("STALE FALLBACKS : %d\n", snap.StaleFallbacks)
	fmt.Printf("EXPIRED         : %d\n", snap.Expired)
}
