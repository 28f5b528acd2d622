package store

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/krisalay/coalescing-cache/policy"
	"github.com/krisalay/coalescing-cache/types"
)

/*
This file defines how results are actually stored. This is NOT a normal map.
- Reads should be very fast
- Reads should NOT require locks
- Writes are less frequent (one per successful producer call) and can
  afford extra work

To achieve this, we use a technique called: "Copy-On-Write" (COW)
*/

/*
TTLStore holds the last successful result per key.

What "copy-on-write" means:
---------------------------
- Readers always see an immutable snapshot
- Writers create a NEW copy of the map
- The new map replaces the old one atomically

This gives us:
--------------
- Lock-free reads on the hot path
- A very simple concurrency model
- The invariant that Value and StoredAt are always read as a pair,
  because entries themselves are never mutated in place
*/
type TTLStore struct {
	// data holds the actual map[string]*CacheEntry.
	// atomic.Value allows us to swap the entire map atomically and
	// let readers safely access it without locks.
	data atomic.Value

	// mu serializes writers. Readers never take it.
	mu sync.Mutex

	// size tracks the number of entries, so we don't count map entries
	// on every Stats call.
	size atomic.Int64
}

func NewTTLStore() *TTLStore {
	s := &TTLStore{}
	s.data.Store(make(map[string]*types.CacheEntry))
	return s
}

func (s *TTLStore) snapshot() map[string]*types.CacheEntry {
	return s.data.Load().(map[string]*types.CacheEntry)
}

// Get retrieves the stored entry for key.
// A miss is a normal signal, not an error: the second return is false.
// Get does NOT evaluate freshness; that decision belongs to the caller,
// which knows the category.
func (s *TTLStore) Get(key string) (*types.CacheEntry, bool) {
	ent, ok := s.snapshot()[key]
	return ent, ok
}

/*
Put inserts or replaces the entry for key, with StoredAt set to now.
This is where copy-on-write happens.

1. Load the current map
2. Create a NEW map
3. Copy all existing entries
4. Add the new entry
5. Atomically replace the old map
6. Update the size
*/
func (s *TTLStore) Put(key, category string, value any) {
	ent := &types.CacheEntry{
		Key:      key,
		Category: category,
		Value:    value,
		StoredAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.snapshot()

	n := make(map[string]*types.CacheEntry, len(old)+1)
	for k, v := range old {
		n[k] = v
	}
	n[key] = ent

	s.data.Store(n)
	s.size.Store(int64(len(n)))
}

/*
SweepExpired removes every entry whose age exceeds its category's max-age
at the given instant, and reports how many were removed.

This is an explicit maintenance operation. The store never schedules it
on its own; the caller decides when (and whether) to sweep. Readers are
never blocked while a sweep rebuilds the map.
*/
func (s *TTLStore) SweepExpired(now time.Time, table *policy.Table) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.snapshot()

	n := make(map[string]*types.CacheEntry, len(old))
	removed := 0
	for k, ent := range old {
		if table.IsExpired(ent, now) {
			removed++
			continue
		}
		n[k] = ent
	}
	if removed == 0 {
		return 0
	}

	s.data.Store(n)
	s.size.Store(int64(len(n)))
	return removed
}

/*
Stats aggregates the current entries per category.

Grouping uses key-prefix inference against the policy table, falling back
to the "other" bucket when no category prefix matches. The inference is
heuristic and deliberately confined to this view.
*/
func (s *TTLStore) Stats(now time.Time, table *policy.Table) map[string]types.CategoryStats {
	snap := s.snapshot()

	counts := make(map[string]int)
	ageSums := make(map[string]float64)
	for key, ent := range snap {
		category := table.CategoryForKey(key)
		counts[category]++
		ageSums[category] += ent.Age(now).Seconds()
	}

	out := make(map[string]types.CategoryStats, len(counts))
	for category, count := range counts {
		out[category] = types.CategoryStats{
			Count:             count,
			AverageAgeSeconds: ageSums[category] / float64(count),
		}
	}
	return out
}

// Clear drops all entries and reports how many were removed.
func (s *TTLStore) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := len(s.snapshot())
	s.data.Store(make(map[string]*types.CacheEntry))
	s.size.Store(0)
	return removed
}

// Len returns how many entries are stored, including entries that are
// already past their max-age but have not been swept yet.
func (s *TTLStore) Len() int {
	return int(s.size.Load())
}
