package types

import "sync"

/*
Metrics is how the cache reports what it is doing.
Each method represents one event in the cache lifecycle; the client
calls these as the events happen.
*/
type Metrics interface {

	// Hit is called when a read finds a fresh entry.
	Hit()

	// Miss is called when a read finds nothing usable.
	Miss()

	// Expire is called when a stale entry is deleted at read time.
	Expire()

	// Store is called when an entry is written.
	Store()

	// Invalidate is called when an entry is deleted explicitly.
	Invalidate()
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

It exists so callers that do not care about metrics still get a working
cache without nil checks scattered through the client.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()        {}
func (NoopMetrics) Miss()       {}
func (NoopMetrics) Expire()     {}
func (NoopMetrics) Store()      {}
func (NoopMetrics) Invalidate() {}

// Counters is a mutex-guarded Metrics implementation. The storefront's
// health and performance endpoints expose its snapshot.
type Counters struct {
	mu          sync.Mutex
	hits        int64
	misses      int64
	expired     int64
	stores      int64
	invalidated int64
}

func (c *Counters) Hit()        { c.mu.Lock(); c.hits++; c.mu.Unlock() }
func (c *Counters) Miss()       { c.mu.Lock(); c.misses++; c.mu.Unlock() }
func (c *Counters) Expire()     { c.mu.Lock(); c.expired++; c.mu.Unlock() }
func (c *Counters) Store()      { c.mu.Lock(); c.stores++; c.mu.Unlock() }
func (c *Counters) Invalidate() { c.mu.Lock(); c.invalidated++; c.mu.Unlock() }

// Snapshot reports the current counts.
type Snapshot struct {
	Hits        int64 `json:"hits"`
	Misses      int64 `json:"misses"`
	Expired     int64 `json:"expired"`
	Stores      int64 `json:"stores"`
	Invalidated int64 `json:"invalidated"`
}

func (c *Counters) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Hits:        c.hits,
		Misses:      c.misses,
		Expired:     c.expired,
		Stores:      c.stores,
		Invalidated: c.invalidated,
	}
}
