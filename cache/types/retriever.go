package types

import "context"

/*
Retriever is the contract between the cache and the outside world.

It is called on a cache miss, and only on a cache miss. It can be a
database query, an HTTP call, or any other operation that produces the
authoritative value for a key.

1. Client checks the store → key not found or stale
2. Client calls the Retriever
3. Retriever fetches from DB/API
4. Client stores the result (best-effort)
5. Client returns the value

A Retriever error is always surfaced to the caller: failures are never
cached and never retried by this layer.
*/
type Retriever func(ctx context.Context) ([]byte, error)
