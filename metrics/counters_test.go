package metrics_test

import (
	"sync"
	"testing"

	"github.com/krisalay/coalescing-cache/metrics"
)

func TestCountersConcurrent(t *testing.T) {
	c := metrics.NewCounters()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Hit()
				c.Miss()
				c.Coalesced()
				c.StaleFallback()
				c.Expire()
			}
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	if snap.Hits != 1000 || snap.Misses != 1000 || snap.Coalesced != 1000 ||
		snap.StaleFallbacks != 1000 || snap.Expired != 1000 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
