/*
Package cache implements a response cache over a durable key-value store.

This is the orchestrator that connects:
- key derivation (keyspace)
- staleness rules (expiration)
- the backing store (kvstore)
- retrieval on miss (types.Retriever)
- metrics

Entries are JSON envelopes of {payload, storedAt}. Staleness is decided
lazily at read time and stale entries are deleted the moment they are
detected; nothing sweeps the store in the background.

Storage problems never surface to callers: a failed write or a corrupt
entry degrades to "no cache" and the retrieval path still works. The
worst case of this layer is that every call becomes a live retrieval.
*/
package cache

import (
	"encoding/json"
	"time"

	"github.com/apex/log"
	"golang.org/x/sync/singleflight"

	"github.com/rudranil/techstore/cache/expiration"
	"github.com/rudranil/techstore/cache/keyspace"
	"github.com/rudranil/techstore/cache/kvstore"
	"github.com/rudranil/techstore/cache/types"
)

// DefaultTTL is how long entries stay fresh when no TTL is given.
const DefaultTTL = 5 * time.Minute

/*
Client is an explicitly constructed cache handle. It carries its own
configuration and is passed by reference to consumers; there is no
package-level singleton.
*/
type Client struct {
	store      kvstore.Store
	prefix     string
	defaultTTL time.Duration
	enabled    bool
	dedupe     bool
	logger     log.Interface
	metrics    types.Metrics

	// now is injectable so staleness can be tested with a simulated clock.
	now func() time.Time

	// sf de-duplicates concurrent retrievals for the same key, but only
	// when the client opted in via WithDedupe.
	sf singleflight.Group
}

// New builds a Client over the given store.
func New(store kvstore.Store, opts ...Option) *Client {
	c := &Client{
		store:      store,
		prefix:     keyspace.DefaultPrefix,
		defaultTTL: DefaultTTL,
		enabled:    true,
		logger:     log.Log,
		metrics:    types.NoopMetrics{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether the client caches at all.
func (c *Client) Enabled() bool {
	return c.enabled
}

/*
Store writes {payload, storedAt: now} under the derived key, replacing
any existing entry.

Failures are logged and swallowed: a write that cannot be persisted
silently degrades to "no cache" and must never crash the caller.
*/
func (c *Client) Store(key string, payload []byte) {
	ent := types.NewEntry(payload, c.now())
	raw, err := json.Marshal(ent)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("cache: encode entry failed")
		return
	}
	if err := c.store.Set(keyspace.Derive(c.prefix, key), string(raw)); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("cache: store failed")
		return
	}
	c.metrics.Store()
}

/*
Read looks up the derived key and applies the staleness rule.

- absent            → miss
- malformed entry   → deleted, logged, miss
- stale entry       → deleted, miss (a second Read also misses)
- fresh entry       → payload
*/
func (c *Client) Read(key string, strat expiration.Strategy) ([]byte, bool) {
	storageKey := keyspace.Derive(c.prefix, key)

	raw, ok, err := c.store.Get(storageKey)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("cache: read failed")
		c.metrics.Miss()
		return nil, false
	}
	if !ok {
		c.metrics.Miss()
		return nil, false
	}

	var ent types.Entry
	if err := json.Unmarshal([]byte(raw), &ent); err != nil {
		// Corrupt data is treated exactly like a miss.
		c.logger.WithError(err).WithField("key", key).Warn("cache: malformed entry")
		c.deleteQuiet(storageKey, key)
		c.metrics.Miss()
		return nil, false
	}

	now := c.now()
	if strat.IsExpired(&ent, now) {
		// Evict eagerly so the next read misses cheaply.
		c.deleteQuiet(storageKey, key)
		c.metrics.Expire()
		c.metrics.Miss()
		return nil, false
	}

	if strat.OnAccess(&ent, now) {
		// Sliding strategies moved the timestamp; rewrite best-effort.
		if updated, err := json.Marshal(&ent); err == nil {
			if err := c.store.Set(storageKey, string(updated)); err != nil {
				c.logger.WithError(err).WithField("key", key).Warn("cache: touch failed")
			}
		}
	}

	c.metrics.Hit()
	return ent.Payload, true
}

// Invalidate unconditionally deletes the entry at key, fresh or stale.
func (c *Client) Invalidate(key string) {
	c.deleteQuiet(keyspace.Derive(c.prefix, key), key)
	c.metrics.Invalidate()
}

/*
InvalidatePrefix deletes every entry whose logical key starts with
logicalPrefix. Mutating endpoints use this to bust whole key families,
e.g. InvalidatePrefix("products") after a product write.
*/
func (c *Client) InvalidatePrefix(logicalPrefix string) {
	keys, err := c.store.Keys(keyspace.Derive(c.prefix, logicalPrefix))
	if err != nil {
		c.logger.WithError(err).WithField("prefix", logicalPrefix).Warn("cache: list keys failed")
		return
	}
	for _, k := range keys {
		c.deleteQuiet(k, logicalPrefix)
		c.metrics.Invalidate()
	}
}

// Stats reports how many entries this client currently owns.
func (c *Client) Stats() (int, error) {
	keys, err := c.store.Keys(keyspace.Derive(c.prefix, ""))
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

func (c *Client) deleteQuiet(storageKey, key string) {
	if err := c.store.Delete(storageKey); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("cache: delete failed")
	}
}
