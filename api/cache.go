package api

import (
	"context"
	"time"

	"github.com/krisalay/coalescing-cache/types"
)

/*
Cache defines the PUBLIC API of the coalescing cache.
This is a contract that guarantees certain behaviors, without exposing internals.
All of the details like (storage, in-flight tracking, policy lookup, concurrency)
are hidden behind this interface.
*/
type Cache interface {

	/*
		Execute answers a request identified by key.

		BEHAVIOR:
		-------------------
		1. If a fresh value for the key is cached:
		   - Return it immediately; the producer is NOT called

		2. If a producer call for the key is already in flight:
		   - Wait for it and share its outcome with every other caller

		3. Otherwise:
		   - Call the producer exactly once
		   - Cache the result on success
		   - On failure, serve a stale cached value if one exists,
		     else return the producer's error

		category selects the max-age policy; unknown categories fall back
		to the default policy entry.
	*/
	Execute(ctx context.Context, key, category string, producer types.Producer) (any, error)

	/*
		SweepExpired removes entries older than their category's max-age.

		BEHAVIOR:
		---------
		- Compares each entry's age at `now` against its category policy
		- Returns the number of entries removed
		- Is never triggered automatically; the caller schedules it

		Correctness does not depend on sweeping. Freshness is re-checked
		on every read; sweeping only reclaims memory.
	*/
	SweepExpired(now time.Time) int

	/*
		Stats reports a point-in-time snapshot.

		WHY THIS IS IMPORTANT:
		----------------------
		- Debugging
		- Monitoring cache behavior
		- Observability in production
	*/
	Stats() types.Stats

	/*
		Clear drops all cached entries and detaches in-flight calls.

		USE CASES:
		----------
		- Administrative reset
		- Data consistency after upstream changes
		- Tests cleanup

		Returns the number of stored entries removed.
	*/
	Clear() int
}
