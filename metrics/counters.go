// Package metrics provides ready-made implementations of types.Metrics.
package metrics

import "go.uber.org/atomic"

/*
Counters is a lock-free in-process implementation of types.Metrics.
It simply counts events; read them back with Snapshot.

This is the implementation to reach for in tests and in applications that
expose their own status endpoint.
*/
type Counters struct {
	hits           atomic.Int64
	misses         atomic.Int64
	coalesced      atomic.Int64
	staleFallbacks atomic.Int64
	expired        atomic.Int64
}

func NewCounters() *Counters {
	return &Counters{}
}

func (c *Counters) Hit()           { c.hits.Inc() }
func (c *Counters) Miss()          { c.misses.Inc() }
func (c *Counters) Coalesced()     { c.coalesced.Inc() }
func (c *Counters) StaleFallback() { c.staleFallbacks.Inc() }
func (c *Counters) Expire()        { c.expired.Inc() }

// Snapshot is a copy of the counter values at one instant.
type Snapshot struct {
	Hits           int64
	Misses         int64
	Coalesced      int64
	StaleFallbacks int64
	Expired        int64
}

// Snapshot reads all counters. The values are individually consistent,
// not a single atomic cut across all five.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Hits:           c.hits.Load(),
		Misses:         c.misses.Load(),
		Coalesced:      c.coalesced.Load(),
		StaleFallbacks: c.staleFallbacks.Load(),
		Expired:        c.expired.Load(),
	}
}
