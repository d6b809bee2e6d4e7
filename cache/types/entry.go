package types

import (
	"encoding/json"
	"time"
)

/*
Entry is the envelope written to the key-value store for every cached
response. The payload is kept as raw JSON so the cache never needs to
know the consumer's types.

StoredAt is recorded in unix milliseconds at write time. Staleness is
always decided at read time by comparing StoredAt against a TTL; there
is no background sweeper.
*/
type Entry struct {
	Payload  json.RawMessage `json:"payload"`
	StoredAt int64           `json:"storedAt"` // unix milliseconds
}

// NewEntry wraps a payload with the given write timestamp.
func NewEntry(payload json.RawMessage, now time.Time) *Entry {
	return &Entry{
		Payload:  payload,
		StoredAt: now.UnixMilli(),
	}
}

// Age returns how long ago the entry was written.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(e.StoredAt))
}

// Touch resets the write timestamp. Used by sliding expiration strategies.
func (e *Entry) Touch(now time.Time) {
	e.StoredAt = now.UnixMilli()
}
