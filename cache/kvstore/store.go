/*
Package kvstore abstracts the durable key-value store the cache writes to.

The cache client only ever needs get, set, delete, and a prefix scan, so
alternate backing stores (an in-memory map, files on disk, a SQLite
table) can be substituted without touching the orchestration logic.
*/
package kvstore

// Store is the contract every backing store must satisfy.
//
// Keys and values are plain strings. Set may fail (disk full, quota,
// closed handle); the cache treats any such failure as "no cache" and
// never propagates it to its own callers.
type Store interface {

	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)

	// Set writes value under key, replacing any existing value.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Keys lists every stored key beginning with prefix. An empty
	// prefix lists everything.
	Keys(prefix string) ([]string, error)
}
