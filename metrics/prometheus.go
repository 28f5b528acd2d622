package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus implements types.Metrics on top of Prometheus counters, for
// applications that already scrape a /metrics endpoint.
type Prometheus struct {
	hits           prometheus.Counter
	misses         prometheus.Counter
	coalesced      prometheus.Counter
	staleFallbacks prometheus.Counter
	expired        prometheus.Counter
}

// NewPrometheus registers the cache counters under the given namespace
// with the default registerer. Registering the same namespace twice
// panics, as usual with promauto; create one instance per process.
func NewPrometheus(namespace string) *Prometheus {
	return &Prometheus{
		hits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Requests served from a fresh cached value",
		}),
		misses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Requests that could not be served from a fresh cached value",
		}),
		coalesced: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_coalesced_total",
			Help:      "Requests that joined an already in-flight producer call",
		}),
		staleFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_stale_fallbacks_total",
			Help:      "Producer failures answered with a stale cached value",
		}),
		expired: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_expired_entries_total",
			Help:      "Entries removed by expiry sweeps",
		}),
	}
}

func (p *Prometheus) Hit()           { p.hits.Inc() }
func (p *Prometheus) Miss()          { p.misses.Inc() }
func (p *Prometheus) Coalesced()     { p.coalesced.Inc() }
func (p *Prometheus) StaleFallback() { p.staleFallbacks.Inc() }
func (p *Prometheus) Expire()        { p.expired.Inc() }
