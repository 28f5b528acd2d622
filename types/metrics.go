package types

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the cache lifecycle. The cache will call these methods whenever something happens.
*/
type Metrics interface {

	// Hit is called when a fresh value is served from memory and the
	// producer is never invoked.
	Hit()

	// Miss is called when no fresh value exists and the caller has to go
	// through the in-flight path.
	Miss()

	// Coalesced is called when a caller joins a producer call that was
	// already in flight instead of starting its own.
	Coalesced()

	// StaleFallback is called when the producer fails and an expired entry
	// is served in its place.
	StaleFallback()

	// Expire is called once per entry removed by an expiry sweep.
	Expire()
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

Why do we need this?
--------------------
We don't want to force every user of the cache
to implement metrics.

If someone does not care about metrics,
we still want the cache to work without:
- nil pointer checks everywhere
- if metrics != nil conditions

So we provide a default implementation
that simply ignores all metric events.
*/
type NoopMetrics struct{}

// All methods below intentionally do nothing.
// This satisfies the Metrics interface without side effects.

func (NoopMetrics) Hit()           {}
func (NoopMetrics) Miss()          {}
func (NoopMetrics) Coalesced()     {}
func (NoopMetrics) StaleFallback() {}
func (NoopMetrics) Expire()        {}
