// This file defines how cached responses go stale over time.

package expiration

import (
	"time"

	"github.com/rudranil/techstore/cache/types"
)

/*
Strategy is the interface all staleness rules must follow. Instead of
hard-coding one rule into the client, staleness is a strategy so the
behavior can be swapped per call.
*/
type Strategy interface {

	// IsExpired reports whether the entry must not be returned anymore.
	IsExpired(*types.Entry, time.Time) bool

	// OnAccess is called after an entry is read successfully. It returns
	// true when the entry was mutated and should be rewritten to the
	// store (sliding strategies push the timestamp forward on reads).
	OnAccess(*types.Entry, time.Time) bool
}
