package types

import "context"

/*
Producer is the contract between the cache and the upstream data source.

Producer is called when the cache cannot serve a fresh value from memory.
1. Cache checks memory → no fresh value for the key
2. Cache makes sure no other caller is already fetching the same key
3. Producer fetches from the upstream API
4. Cache stores the result in memory
5. Cache returns the value to every waiting caller

The cache never retries a failed producer. Retry policy, if any, belongs to
the producer itself or to its caller.
*/
type Producer func(ctx context.Context) (any, error)
