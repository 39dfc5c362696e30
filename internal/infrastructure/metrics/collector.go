package metrics

import (
	"sync"
	"sync/atomic"
)

// Collector keeps in-process request statistics per route. A route is an
// HTTP ServeMux pattern or a gRPC full method name.
type Collector struct {
	routes sync.Map // map[string]*routeStats
}

type routeStats struct {
	requests atomic.Uint64
	errors   atomic.Uint64

	mu      sync.Mutex
	seconds float64
}

// RouteStats is a point-in-time copy of one route's statistics
type RouteStats struct {
	Requests        uint64
	Errors          uint64
	DurationSeconds float64 // Sum over all requests
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Observe records one finished request on route
func (c *Collector) Observe(route string, durationSeconds float64, failed bool) {
	val, _ := c.routes.LoadOrStore(route, &routeStats{})
	rs := val.(*routeStats)

	rs.requests.Add(1)
	if failed {
		rs.errors.Add(1)
	}

	rs.mu.Lock()
	rs.seconds += durationSeconds
	rs.mu.Unlock()
}

// Snapshot returns the statistics of every route seen so far
func (c *Collector) Snapshot() map[string]RouteStats {
	out := make(map[string]RouteStats)
	c.routes.Range(func(key, value interface{}) bool {
		rs := value.(*routeStats)
		rs.mu.Lock()
		seconds := rs.seconds
		rs.mu.Unlock()

		out[key.(string)] = RouteStats{
			Requests:        rs.requests.Load(),
			Errors:          rs.errors.Load(),
			DurationSeconds: seconds,
		}
		return true
	})
	return out
}
