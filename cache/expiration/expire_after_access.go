package expiration

import (
	"time"

	"github.com/rudranil/techstore/cache/types"
)

/*
ExpireAfterAccess implements a sliding TTL. Every successful read pushes
the expiration window forward: as long as the data keeps getting used it
stays alive, and once nobody touches it for a full TTL it goes stale.

Because the entry lives in a durable key-value store rather than in
memory, extending the window means rewriting the envelope. OnAccess
signals that by returning true; the client rewrites best-effort.
*/
type ExpireAfterAccess struct {
	TTL time.Duration
}

func (e ExpireAfterAccess) IsExpired(ent *types.Entry, now time.Time) bool {
	return e.TTL > 0 && ent.Age(now) >= e.TTL
}

func (e ExpireAfterAccess) OnAccess(ent *types.Entry, now time.Time) bool {
	ent.Touch(now)
	return true
}
