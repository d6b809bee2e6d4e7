package cache_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudranil/techstore/cache"
	"github.com/rudranil/techstore/cache/expiration"
	"github.com/rudranil/techstore/cache/keyspace"
	"github.com/rudranil/techstore/cache/kvstore"
	"github.com/rudranil/techstore/cache/types"
)

//
// ================= TEST FIXTURES =================
//

// fakeClock lets tests move time forward without sleeping.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

// failingStore rejects every write, simulating a full or broken store.
type failingStore struct {
	kvstore.Store
}

func (failingStore) Set(string, string) error {
	return errors.New("quota exceeded")
}

func newTestClient(opts ...cache.Option) (*cache.Client, *kvstore.Memory, *fakeClock) {
	mem := kvstore.NewMemory()
	clock := newFakeClock()
	opts = append([]cache.Option{cache.WithClock(clock.Now)}, opts...)
	return cache.New(mem, opts...), mem, clock
}

// rawEntry reads the envelope straight out of the backing store.
func rawEntry(t *testing.T, mem *kvstore.Memory, key string) (types.Entry, bool) {
	t.Helper()
	raw, ok, err := mem.Get(keyspace.Derive(keyspace.DefaultPrefix, key))
	require.NoError(t, err)
	if !ok {
		return types.Entry{}, false
	}
	var ent types.Entry
	require.NoError(t, json.Unmarshal([]byte(raw), &ent))
	return ent, true
}

//
// ================= STORE / READ / INVALIDATE =================
//

func TestStoreReadRoundTrip(t *testing.T) {
	c, _, _ := newTestClient()

	c.Store("users:u1", []byte(`{"name":"ada"}`))

	payload, ok := c.Read("users:u1", expiration.ExpireAfterWrite{TTL: time.Minute})
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"ada"}`, string(payload))
}

func TestReadAbsentKeyMisses(t *testing.T) {
	c, _, _ := newTestClient()

	_, ok := c.Read("missing", expiration.ExpireAfterWrite{TTL: time.Minute})
	assert.False(t, ok)
}

func TestInvalidateRemovesEntry(t *testing.T) {
	c, mem, _ := newTestClient()

	c.Store("users:u1", []byte(`"v"`))
	c.Invalidate("users:u1")

	_, ok := c.Read("users:u1", expiration.ExpireAfterWrite{TTL: time.Minute})
	assert.False(t, ok)

	_, present := rawEntry(t, mem, "users:u1")
	assert.False(t, present)
}

func TestStaleEvictionIsIdempotent(t *testing.T) {
	c, mem, clock := newTestClient()
	strat := expiration.ExpireAfterWrite{TTL: 5 * time.Second}

	c.Store("k", []byte(`1`))
	clock.Advance(5 * time.Second) // boundary counts as stale

	_, ok := c.Read("k", strat)
	assert.False(t, ok)

	// The entry was deleted at detection time, not just skipped.
	_, present := rawEntry(t, mem, "k")
	assert.False(t, present)

	_, ok = c.Read("k", strat)
	assert.False(t, ok)
}

func TestMalformedEntryTreatedAsMiss(t *testing.T) {
	c, mem, _ := newTestClient()

	require.NoError(t, mem.Set(keyspace.Derive(keyspace.DefaultPrefix, "bad"), "{not json"))

	_, ok := c.Read("bad", expiration.ExpireAfterWrite{TTL: time.Minute})
	assert.False(t, ok)

	// Corrupt data is cleaned up on detection.
	_, present, err := mem.Get(keyspace.Derive(keyspace.DefaultPrefix, "bad"))
	require.NoError(t, err)
	assert.False(t, present)
}

func TestStoreFailureDegradesSilently(t *testing.T) {
	mem := kvstore.NewMemory()
	c := cache.New(failingStore{Store: mem})

	// Store must swallow the failure...
	c.Store("k", []byte(`1`))

	// ...and Fetch must still deliver the retrieved value.
	got, err := c.Fetch(context.Background(), "k", func(context.Context) ([]byte, error) {
		return []byte(`"live"`), nil
	})
	require.NoError(t, err)
	assert.Equal(t, `"live"`, string(got))
}

func TestInvalidatePrefix(t *testing.T) {
	c, _, _ := newTestClient()
	strat := expiration.ExpireAfterWrite{TTL: time.Minute}

	c.Store("products:list:a", []byte(`1`))
	c.Store("products:p1", []byte(`2`))
	c.Store("users:u1", []byte(`3`))

	c.InvalidatePrefix("products")

	_, ok := c.Read("products:list:a", strat)
	assert.False(t, ok)
	_, ok = c.Read("products:p1", strat)
	assert.False(t, ok)
	_, ok = c.Read("users:u1", strat)
	assert.True(t, ok, "other key families must survive")
}

//
// ================= FETCH ORCHESTRATION =================
//

func TestFetchHitSkipsRetriever(t *testing.T) {
	c, _, _ := newTestClient()
	ctx := context.Background()

	c.Store("products:list", []byte(`[{"id":"p1"}]`))

	calls := 0
	got, err := c.Fetch(ctx, "products:list", func(context.Context) ([]byte, error) {
		calls++
		return []byte(`[]`), nil
	}, cache.WithTTL(5*time.Second))

	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"p1"}]`, string(got))
	assert.Zero(t, calls, "retriever must not run on a hit")
}

func TestFetchAfterExpiryRefreshes(t *testing.T) {
	c, mem, clock := newTestClient()
	ctx := context.Background()

	c.Store("products:list", []byte(`[{"id":"p1"}]`))
	clock.Advance(6 * time.Second)

	got, err := c.Fetch(ctx, "products:list", func(context.Context) ([]byte, error) {
		return []byte(`[{"id":"p2"}]`), nil
	}, cache.WithTTL(5*time.Second))

	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"p2"}]`, string(got))

	// The store now holds the new value under a fresh timestamp.
	ent, present := rawEntry(t, mem, "products:list")
	require.True(t, present)
	assert.JSONEq(t, `[{"id":"p2"}]`, string(ent.Payload))
	assert.Equal(t, clock.Now().UnixMilli(), ent.StoredAt)
}

func TestFetchDisabledAlwaysRetrieves(t *testing.T) {
	c, mem, _ := newTestClient(cache.Disabled())
	ctx := context.Background()

	calls := 0
	for i := 0; i < 3; i++ {
		got, err := c.Fetch(ctx, "k", func(context.Context) ([]byte, error) {
			calls++
			return []byte(`"v"`), nil
		})
		require.NoError(t, err)
		assert.Equal(t, `"v"`, string(got))
	}
	assert.Equal(t, 3, calls)

	// Disabled caching writes nothing.
	_, present := rawEntry(t, mem, "k")
	assert.False(t, present)
}

func TestFetchPerCallBypass(t *testing.T) {
	c, _, _ := newTestClient()
	ctx := context.Background()

	c.Store("k", []byte(`"cached"`))

	got, err := c.Fetch(ctx, "k", func(context.Context) ([]byte, error) {
		return []byte(`"live"`), nil
	}, cache.WithoutCache())

	require.NoError(t, err)
	assert.Equal(t, `"live"`, string(got))

	// The bypass did not overwrite the cached value.
	payload, ok := c.Read("k", expiration.ExpireAfterWrite{TTL: time.Minute})
	require.True(t, ok)
	assert.Equal(t, `"cached"`, string(payload))
}

func TestFetchErrorPropagatesAndIsNotCached(t *testing.T) {
	c, mem, _ := newTestClient()
	ctx := context.Background()

	_, err := c.Fetch(ctx, "k", func(context.Context) ([]byte, error) {
		return nil, errors.New("network error")
	})
	require.EqualError(t, err, "network error")

	_, present := rawEntry(t, mem, "k")
	assert.False(t, present, "failures must never be cached")
}

func TestFetchDedupeCollapsesConcurrentMisses(t *testing.T) {
	c, _, _ := newTestClient(cache.WithDedupe())
	ctx := context.Background()

	var calls atomic.Int64
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := c.Fetch(ctx, "hot", func(context.Context) ([]byte, error) {
				calls.Add(1)
				<-release
				return []byte(`"v"`), nil
			})
			assert.NoError(t, err)
			assert.Equal(t, `"v"`, string(got))
		}()
	}

	// Give the goroutines a moment to pile onto the same key.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load())
}

func TestSlidingExpirationExtendsOnRead(t *testing.T) {
	c, mem, clock := newTestClient()
	strat := expiration.ExpireAfterAccess{TTL: 10 * time.Second}

	c.Store("k", []byte(`1`))

	clock.Advance(8 * time.Second)
	_, ok := c.Read("k", strat)
	require.True(t, ok)

	// The read pushed the window forward, so another 8s is still fresh.
	clock.Advance(8 * time.Second)
	_, ok = c.Read("k", strat)
	assert.True(t, ok)

	ent, present := rawEntry(t, mem, "k")
	require.True(t, present)
	assert.Equal(t, clock.Now().UnixMilli(), ent.StoredAt)
}

//
// ================= TYPED WRAPPER =================
//

type product struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestFetchJSONRoundTrip(t *testing.T) {
	c, _, _ := newTestClient()
	ctx := context.Background()

	calls := 0
	retrieve := func(context.Context) ([]product, error) {
		calls++
		return []product{{ID: "p1", Name: "MacBook Pro M3"}}, nil
	}

	first, err := cache.FetchJSON(ctx, c, "products:list", retrieve, cache.WithTTL(time.Minute))
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "p1", first[0].ID)

	second, err := cache.FetchJSON(ctx, c, "products:list", retrieve, cache.WithTTL(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

//
// ================= METRICS =================
//

func TestCountersTrackLifecycle(t *testing.T) {
	counters := &types.Counters{}
	c, _, clock := newTestClient(cache.WithMetrics(counters))
	strat := expiration.ExpireAfterWrite{TTL: time.Second}

	c.Store("k", []byte(`1`))
	c.Read("k", strat) // hit
	clock.Advance(2 * time.Second)
	c.Read("k", strat) // expire + miss
	c.Read("k", strat) // miss
	c.Invalidate("k")

	snap := counters.Snapshot()
	assert.Equal(t, int64(1), snap.Stores)
	assert.Equal(t, int64(1), snap.Hits)
	assert.Equal(t, int64(1), snap.Expired)
	assert.Equal(t, int64(2), snap.Misses)
	assert.Equal(t, int64(1), snap.Invalidated)
}
