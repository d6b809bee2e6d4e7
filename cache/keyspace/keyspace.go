// Package keyspace derives storage keys from logical resource keys.
package keyspace

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
)

// DefaultPrefix namespaces every cache entry so unrelated data sharing
// the same key-value store never collides with cached responses.
const DefaultPrefix = "techstore"

/*
Derive maps a logical key to its namespaced storage key.
Pure and deterministic: the same prefix and key always produce the same
storage key, and nothing is read or written here.
*/
func Derive(prefix, key string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return prefix + ":" + key
}

// Member reports whether a storage key belongs to a logical prefix.
// Used when clearing a whole family of keys ("products:*").
func Member(prefix, storageKey, logicalPrefix string) bool {
	return strings.HasPrefix(storageKey, Derive(prefix, logicalPrefix))
}

/*
ParamsKey builds a stable logical key from request parameters.

Parameters are sorted by name, JSON-encoded, and hashed, so the same
filter set always lands on the same key regardless of argument order.
The hash keeps keys short even for long search strings.
*/
func ParamsKey(name string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([][2]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, [2]string{k, params[k]})
	}

	// Marshaling a slice of pairs keeps the encoding order stable.
	raw, err := json.Marshal(pairs)
	if err != nil {
		// Only unmarshalable values reach here; map[string]string never does.
		raw = []byte(name)
	}

	sum := md5.Sum(raw)
	return name + ":" + hex.EncodeToString(sum[:])
}
