package types

// CategoryStats is one category's slice of the statistics view.
type CategoryStats struct {
	Count             int     `json:"count"`
	AverageAgeSeconds float64 `json:"averageAgeSeconds"`
}

// Stats is a point-in-time snapshot of the cache.
// It is a value, not a view: mutating it does not touch the cache.
type Stats struct {
	TotalEntries int                      `json:"totalEntries"`
	InFlight     int                      `json:"inFlightCount"`
	ByCategory   map[string]CategoryStats `json:"byCategory"`
}
