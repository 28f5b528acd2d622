// This file defines how cache entries age out, per category.

package policy

import (
	"strings"
	"time"

	"github.com/krisalay/coalescing-cache/types"
)

// Other is the statistics bucket for keys that match no configured
// category prefix.
const Other = "other"

/*
Table maps a category name to the maximum age a cached value of that
category may reach before it is considered stale.

Instead of hard-coding one TTL into the cache, the table is built once at
construction time and is read-only afterwards, so it can be shared freely
between goroutines without locking.
*/
type Table struct {
	maxAge map[string]time.Duration

	// def applies when a category is not in the table.
	def time.Duration
}

/*
NewTable creates a Table.

maxAge maps category names to durations; def is the fallback for any
category the map does not know. The input map is copied, so later mutation
by the caller cannot change the policy.
*/
func NewTable(maxAge map[string]time.Duration, def time.Duration) *Table {
	m := make(map[string]time.Duration, len(maxAge))
	for k, v := range maxAge {
		m[k] = v
	}
	return &Table{maxAge: m, def: def}
}

// MaxAge resolves the max-age for a category.
// Unknown categories use the default entry.
func (t *Table) MaxAge(category string) time.Duration {
	if d, ok := t.maxAge[category]; ok {
		return d
	}
	return t.def
}

// IsFresh checks whether the entry may still be served without calling the
// producer, judged against the category the caller asked for. That is not
// necessarily the category the entry was stored under: freshness always
// follows the current request.
func (t *Table) IsFresh(ent *types.CacheEntry, category string, now time.Time) bool {
	return ent.Age(now) < t.MaxAge(category)
}

// IsExpired is the sweep-side complement of IsFresh: true once the entry's
// age strictly exceeds its category's max-age.
func (t *Table) IsExpired(ent *types.CacheEntry, now time.Time) bool {
	return ent.Age(now) > t.MaxAge(ent.Category)
}

/*
CategoryForKey guesses a category from a key's prefix.

This is heuristic string matching and may misclassify keys whose names
collide with a category prefix. It is therefore used ONLY for grouping in
the statistics view, where a misclassification is cosmetic. Freshness
decisions always use the explicit category the caller passed to Execute.
*/
func (t *Table) CategoryForKey(key string) string {
	for category := range t.maxAge {
		if strings.HasPrefix(key, category) {
			return category
		}
	}
	return Other
}
