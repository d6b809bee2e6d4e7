package cache

import (
	"time"

	"github.com/apex/log"

	"github.com/rudranil/techstore/cache/expiration"
	"github.com/rudranil/techstore/cache/types"
)

// Option configures a Client at construction time.
type Option func(*Client)

// WithPrefix changes the namespace prepended to every storage key.
func WithPrefix(prefix string) Option {
	return func(c *Client) { c.prefix = prefix }
}

// WithDefaultTTL changes the freshness window used when a Fetch call
// does not set its own TTL.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *Client) { c.defaultTTL = ttl }
}

// WithLogger routes the client's soft-failure logging.
func WithLogger(l log.Interface) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics wires a Metrics implementation.
func WithMetrics(m types.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// Disabled turns caching off for the whole client: every Fetch goes
// straight to the retriever and nothing is read or written.
func Disabled() Option {
	return func(c *Client) { c.enabled = false }
}

/*
WithDedupe collapses concurrent Fetch calls for the same key into one
retrieval.

Off by default: without it, concurrent misses on a key each invoke
their retriever and the last completed store wins.
*/
func WithDedupe() Option {
	return func(c *Client) { c.dedupe = true }
}

// WithClock injects the time source. Tests use this to simulate the
// passage of time without sleeping.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// FetchOption configures a single Fetch call.
type FetchOption func(*fetchConfig)

type fetchConfig struct {
	strategy expiration.Strategy
	bypass   bool
}

// WithTTL sets the freshness window for this call (expire-after-write).
func WithTTL(ttl time.Duration) FetchOption {
	return func(fc *fetchConfig) { fc.strategy = expiration.ExpireAfterWrite{TTL: ttl} }
}

// WithStrategy replaces the staleness rule for this call, e.g. a
// sliding expiration.ExpireAfterAccess.
func WithStrategy(s expiration.Strategy) FetchOption {
	return func(fc *fetchConfig) { fc.strategy = s }
}

// WithoutCache bypasses the cache for this call only: the retriever is
// always invoked and its result is not stored.
func WithoutCache() FetchOption {
	return func(fc *fetchConfig) { fc.bypass = true }
}
