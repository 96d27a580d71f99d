// Package metrics counts dispatched pointer and viewport requests for the
// simulator footer, the session record and debug logging.
package metrics

import (
	"sort"
	"sync"
	"time"
)

// Stats is a point-in-time copy of the counters.
type Stats struct {
	Timestamp  time.Time      `json:"ts"`
	Dispatched map[string]int `json:"dispatched"`
	Failed     map[string]int `json:"failed,omitempty"`
	Frames     int64          `json:"frames"`
}

// Total returns the number of dispatched requests across all kinds.
func (s Stats) Total() int {
	n := 0
	for _, v := range s.Dispatched {
		n += v
	}
	return n
}

// Failures returns the number of failed requests across all kinds.
func (s Stats) Failures() int {
	n := 0
	for _, v := range s.Failed {
		n += v
	}
	return n
}

// Kinds returns the kinds with at least one dispatch, sorted.
func (s Stats) Kinds() []string {
	out := make([]string, 0, len(s.Dispatched))
	for k := range s.Dispatched {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Collector accumulates counts. The session writes from its frame loop while
// the simulator reads from the bubbletea goroutine.
type Collector struct {
	mu         sync.RWMutex
	dispatched map[string]int
	failed     map[string]int
	frames     int64
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{
		dispatched: make(map[string]int),
		failed:     make(map[string]int),
	}
}

// Record counts one dispatch of kind; a non-nil err also counts a failure.
func (c *Collector) Record(kind string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispatched[kind]++
	if err != nil {
		c.failed[kind]++
	}
}

// Frame counts one polled frame.
func (c *Collector) Frame() {
	c.mu.Lock()
	c.frames++
	c.mu.Unlock()
}

// Snapshot returns a copy of the current counters.
func (c *Collector) Snapshot() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Stats{
		Timestamp:  time.Now().UTC(),
		Dispatched: make(map[string]int, len(c.dispatched)),
		Failed:     make(map[string]int, len(c.failed)),
		Frames:     c.frames,
	}
	for k, v := range c.dispatched {
		s.Dispatched[k] = v
	}
	for k, v := range c.failed {
		s.Failed[k] = v
	}
	return s
}
