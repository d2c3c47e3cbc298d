package metrics

// Process-wide feed counters. Exposed as JSON on /debug/metrics.

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
)

type Counter struct {
	name string
	v    atomic.Int64
}

func (c *Counter) Inc()         { c.v.Add(1) }
func (c *Counter) Add(n int64)  { c.v.Add(n) }
func (c *Counter) Value() int64 { return c.v.Load() }

type Gauge struct {
	name string
	v    atomic.Int64
}

func (g *Gauge) Set(n int64)  { g.v.Store(n) }
func (g *Gauge) Value() int64 { return g.v.Load() }

var (
	mu       sync.Mutex
	counters = map[string]*Counter{}
	gauges   = map[string]*Gauge{}
)

func NewCounter(name string) *Counter {
	mu.Lock()
	defer mu.Unlock()
	if c, ok := counters[name]; ok {
		return c
	}
	c := &Counter{name: name}
	counters[name] = c
	return c
}

func NewGauge(name string) *Gauge {
	mu.Lock()
	defer mu.Unlock()
	if g, ok := gauges[name]; ok {
		return g
	}
	g := &Gauge{name: name}
	gauges[name] = g
	return g
}

var (
	TicksSent      = NewCounter("feed_ticks_total")
	EventsSent     = NewCounter("feed_events_total")
	ClientsDropped = NewCounter("feed_clients_dropped_total")
	Logins         = NewCounter("feed_logins_total")
	Clients        = NewGauge("feed_clients")
)

// Snapshot returns every metric by name.
func Snapshot() map[string]int64 {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]int64, len(counters)+len(gauges))
	for n, c := range counters {
		out[n] = c.Value()
	}
	for n, g := range gauges {
		out[n] = g.Value()
	}
	return out
}

// Names lists metric names in order.
func Names() []string {
	snap := Snapshot()
	out := make([]string, 0, len(snap))
	for n := range snap {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Snapshot())
	})
}
