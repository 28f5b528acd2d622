package types

import "time"

// CacheEntry is one stored result.
// An entry is immutable once published: every successful write creates a
// brand new entry, so a reader can never observe a Value paired with a
// stale or future StoredAt.
type CacheEntry struct {
	// Key is the caller-supplied identifier. The cache treats it as opaque;
	// it typically encodes a logical request signature.
	Key string

	// Category selects the max-age policy for this entry.
	// It is NOT part of the key's uniqueness.
	Category string

	// Value is the producer's result. Opaque payload of any type.
	Value any

	// StoredAt is the timestamp of the last successful write.
	StoredAt time.Time
}

// Age reports how long ago this entry was stored.
func (e *CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.StoredAt)
}
