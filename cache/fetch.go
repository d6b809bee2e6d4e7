package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rudranil/techstore/cache/expiration"
	"github.com/rudranil/techstore/cache/types"
)

/*
Fetch is the read-through path.

 1. Caching disabled (client-wide or per call) → invoke retrieve and
    return its result untouched; the store is neither read nor written.
 2. Read hit → return the cached payload; retrieve is NOT invoked.
 3. Miss → invoke retrieve(ctx).
 4. Success → store the result best-effort, return it.
 5. Failure → propagate the error. Failures are never cached, and a
    stale entry that was evicted during the miss check stays evicted.

There is no retry, no backoff, and no timeout beyond what ctx carries.
Unless the client was built WithDedupe, concurrent callers missing on
the same key each run their own retrieval and last write wins.
*/
func (c *Client) Fetch(ctx context.Context, key string, retrieve types.Retriever, opts ...FetchOption) ([]byte, error) {
	fc := fetchConfig{}
	for _, opt := range opts {
		opt(&fc)
	}
	if fc.strategy == nil {
		fc.strategy = expiration.ExpireAfterWrite{TTL: c.defaultTTL}
	}

	if !c.enabled || fc.bypass {
		return retrieve(ctx)
	}

	if payload, ok := c.Read(key, fc.strategy); ok {
		return payload, nil
	}

	if c.dedupe {
		v, err, _ := c.sf.Do(key, func() (any, error) {
			return c.retrieveAndStore(ctx, key, retrieve)
		})
		if err != nil {
			return nil, err
		}
		return v.([]byte), nil
	}

	return c.retrieveAndStore(ctx, key, retrieve)
}

func (c *Client) retrieveAndStore(ctx context.Context, key string, retrieve types.Retriever) ([]byte, error) {
	payload, err := retrieve(ctx)
	if err != nil {
		return nil, err
	}
	c.Store(key, payload)
	return payload, nil
}

/*
FetchJSON is the typed convenience wrapper around Client.Fetch: it
marshals what the retriever produces and unmarshals what the cache
returns, so consumers work with their own types instead of raw JSON.
*/
func FetchJSON[T any](ctx context.Context, c *Client, key string, retrieve func(context.Context) (T, error), opts ...FetchOption) (T, error) {
	var zero T

	payload, err := c.Fetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		v, err := retrieve(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %q payload: %w", key, err)
		}
		return raw, nil
	}, opts...)
	if err != nil {
		return zero, err
	}

	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return zero, fmt.Errorf("decode %q payload: %w", key, err)
	}
	return out, nil
}
