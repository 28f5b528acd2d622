package cache

import (
	"context"
	"sync"
	"time"

	"github.com/krisalay/coalescing-cache/policy"
	"github.com/krisalay/coalescing-cache/store"
	"github.com/krisalay/coalescing-cache/types"
	"golang.org/x/sync/singleflight"
)

/*
CoalescedCache is the main cache implementation.
This struct is the orchestrator that connects:
- the TTL store
- the category policy table
- in-flight deduplication
- metrics

It exists to shield a rate-limited upstream API from two kinds of
duplicate work: concurrent requests for the same key, and near-term
repeats of a request that was answered moments ago.
*/
type CoalescedCache struct {
	// store holds the last successful result per key.
	store *store.TTLStore

	// table decides how old a result may get before it stops being served.
	table *policy.Table

	// metrics is how we keep track of what the cache is doing.
	// Hits, misses, coalesced joins, stale fallbacks, expirations.
	metrics types.Metrics

	// sf prevents multiple goroutines from calling the producer for the
	// same key simultaneously. Others wait for the one in flight.
	sf singleflight.Group

	// mu guards inflight and gen. The map counts live producer calls per
	// key so Stats can report them and Clear can forget them.
	mu       sync.Mutex
	inflight map[string]int

	// gen moves forward on every Clear. A flight writes through only if
	// the generation it registered under is still current, so a flight
	// detached by Clear cannot repopulate the cleared store.
	gen uint64
}

/*
New creates a CoalescedCache with the given category policy table.

Each instance owns its own state; tests can run several isolated caches
in parallel without any process-wide globals.
*/
func New(table *policy.Table, metrics types.Metrics) *CoalescedCache {

	// Ensure metrics is always non-nil.
	// This avoids defensive nil checks throughout the codebase.
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}

	return &CoalescedCache{
		store:    store.NewTTLStore(),
		table:    table,
		metrics:  metrics,
		inflight: make(map[string]int),
	}
}

/*
Execute answers a request for key, calling producer only when it must.

1. If the store holds an entry for key that is still fresh for the given
   category, return it. The producer is never invoked.
2. If a producer call for key is already in flight, join it: every
   concurrent caller for the same key receives the same value or the
   same error from a single producer invocation.
3. Otherwise invoke the producer once.
   - On success the result is written through to the store and returned.
   - On failure a stale entry, if one exists, is served as a fallback
     instead of the error; the failed call never touches the store.

A registered producer call always runs to completion; a joined caller
cannot cancel the wait for the others sharing it.
*/
func (c *CoalescedCache) Execute(ctx context.Context, key, category string, producer types.Producer) (any, error) {

	// Try to serve from memory first.
	if ent, ok := c.store.Get(key); ok && c.table.IsFresh(ent, category, time.Now()) {
		c.metrics.Hit()
		return ent.Value, nil
	}

	c.metrics.Miss()
	// Best-effort: a flight can complete or register between this check
	// and the Do below, so the coalesced count is an approximation.
	if c.hasInFlight(key) {
		c.metrics.Coalesced()
	}

	/*
		singleflight ensures that:
		- If 100 goroutines request the same stale key,
		  only ONE of them calls the producer.
		- Others wait and share the result.
	*/
	val, err, _ := c.sf.Do(key, func() (any, error) {
		gen := c.registerFlight(key)
		defer c.unregisterFlight(key)

		// The key may have been refreshed while we waited our turn.
		if ent, ok := c.store.Get(key); ok && c.table.IsFresh(ent, category, time.Now()) {
			return ent.Value, nil
		}

		val, err := producer(ctx)
		if err != nil {
			// Serve stale data rather than fail, when we have any.
			// StoredAt is left untouched: a failed call never writes.
			if ent, ok := c.store.Get(key); ok {
				c.metrics.StaleFallback()
				return ent.Value, nil
			}
			return nil, err
		}

		// A Clear issued while we were fetching detaches this flight:
		// waiters still receive the value, but the store stays cold.
		c.putIfCurrent(gen, key, category, val)
		return val, nil
	})

	return val, err
}

/*
SweepExpired removes every entry whose age exceeds its category's max-age
at the given instant and returns how many were removed.

The cache never schedules this itself; callers run it periodically if
they care about reclaiming memory. Serving stays correct without it,
because freshness is always re-checked on read.
*/
func (c *CoalescedCache) SweepExpired(now time.Time) int {
	removed := c.store.SweepExpired(now, c.table)
	for i := 0; i < removed; i++ {
		c.metrics.Expire()
	}
	return removed
}

// Stats reports a snapshot of the cache: total entries, live producer
// calls, and per-category counts with average entry age.
func (c *CoalescedCache) Stats() types.Stats {
	return types.Stats{
		TotalEntries: c.store.Len(),
		InFlight:     c.InFlight(),
		ByCategory:   c.store.Stats(time.Now(), c.table),
	}
}

/*
Clear drops every stored entry and detaches all in-flight calls, so that
any later Execute starts from a cold cache. Returns the number of stored
entries removed.

Producer calls that are running when Clear is invoked still run to
completion for the callers already waiting on them, but they are detached:
their keys are forgotten, their results are never written back, and the
next Execute for such a key starts a fresh call.
*/
func (c *CoalescedCache) Clear() int {
	c.mu.Lock()
	c.gen++
	for key := range c.inflight {
		c.sf.Forget(key)
	}
	c.mu.Unlock()

	return c.store.Clear()
}

// Len returns the number of stored entries, swept or not.
func (c *CoalescedCache) Len() int {
	return c.store.Len()
}

// InFlight returns the number of producer calls currently running.
func (c *CoalescedCache) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inflight)
}

func (c *CoalescedCache) hasInFlight(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight[key] > 0
}

// registerFlight records a live producer call and returns the generation
// it runs under.
func (c *CoalescedCache) registerFlight(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight[key]++
	return c.gen
}

func (c *CoalescedCache) unregisterFlight(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight[key]--
	if c.inflight[key] <= 0 {
		delete(c.inflight, key)
	}
}

// putIfCurrent writes through unless a Clear has moved the generation on
// since the flight registered. mu is held across the check and the write
// so Clear cannot slip in between them.
func (c *CoalescedCache) putIfCurrent(gen uint64, key, category string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.gen {
		c.store.Put(key, category, value)
	}
}
