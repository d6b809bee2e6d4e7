package expiration

import (
	"time"

	"github.com/rudranil/techstore/cache/types"
)

/*
ExpireAfterWrite is the default staleness rule: an entry is usable for a
fixed window after it was written, no matter how often it is read.

An entry is stale the moment its age reaches the TTL. The boundary
counts as stale: age == TTL must not be returned.
*/
type ExpireAfterWrite struct {
	TTL time.Duration
}

func (e ExpireAfterWrite) IsExpired(ent *types.Entry, now time.Time) bool {
	return e.TTL > 0 && ent.Age(now) >= e.TTL
}

// OnAccess does nothing: reads never extend a write-based TTL.
func (e ExpireAfterWrite) OnAccess(*types.Entry, time.Time) bool {
	return false
}
