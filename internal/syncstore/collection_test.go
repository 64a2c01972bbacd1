package syncstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/cache"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/models"
)

// fakeTable is an in-memory remote.Table with switchable failure modes.
type fakeTable[T interface{ RowKey() string }] struct {
	mu         sync.Mutex
	rows       map[string]T
	order      []string
	fetchCalls int
	failFetch  bool
	failWrites bool
}

func newFakeTable[T interface{ RowKey() string }]() *fakeTable[T] {
	return &fakeTable[T]{rows: map[string]T{}}
}

func (f *fakeTable[T]) FetchAll(context.Context) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fetchCalls++
	if f.failFetch {
		return nil, errors.New("remote unreachable")
	}

	out := make([]T, 0, len(f.order))
	for _, key := range f.order {
		out = append(out, f.rows[key])
	}
	return out, nil
}

func (f *fakeTable[T]) Upsert(_ context.Context, row T) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWrites {
		return row, errors.New("remote unreachable")
	}
	if _, exists := f.rows[row.RowKey()]; !exists {
		f.order = append(f.order, row.RowKey())
	}
	f.rows[row.RowKey()] = row
	return row, nil
}

func (f *fakeTable[T]) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWrites {
		return errors.New("remote unreachable")
	}
	delete(f.rows, key)
	kept := f.order[:0]
	for _, k := range f.order {
		if k != key {
			kept = append(kept, k)
		}
	}
	f.order = kept
	return nil
}

func (f *fakeTable[T]) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls
}

func (f *fakeTable[T]) setFailFetch(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failFetch = fail
}

func (f *fakeTable[T]) setFailWrites(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWrites = fail
}

func (f *fakeTable[T]) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func wishlistRow(id, title string) models.WishlistItem {
	return models.WishlistItem{
		BaseModel: models.BaseModel{ID: id},
		Title:     title,
		Category:  "food",
	}
}

func newWishlistCollection(t *testing.T) (*Collection[models.WishlistItem], *fakeTable[models.WishlistItem], *fakeClock) {
	t.Helper()

	clock := newFakeClock()
	local := cache.New(cache.NewMemoryBackend(), cache.WithClock(clock.Now))
	table := newFakeTable[models.WishlistItem]()

	collection, err := New[models.WishlistItem](Config{
		Domain: DomainWishlist,
		TTL:    5 * time.Minute,
		Clock:  clock.Now,
	}, table, local)
	require.NoError(t, err)

	return collection, table, clock
}

func TestReadWithinTTLSkipsRemote(t *testing.T) {
	collection, table, clock := newWishlistCollection(t)
	ctx := context.Background()

	_, err := table.Upsert(ctx, wishlistRow("1", "Cafe A"))
	require.NoError(t, err)

	rows := collection.Read(ctx)
	require.Len(t, rows, 1)
	require.Equal(t, 1, table.calls())

	clock.Advance(2 * time.Minute)
	rows, source := collection.ReadSourced(ctx)
	require.Len(t, rows, 1)
	require.Equal(t, SourceCache, source)
	require.Equal(t, 1, table.calls(), "fresh cache must not invoke the remote store")
}

func TestReadAfterTTLRefetches(t *testing.T) {
	collection, table, clock := newWishlistCollection(t)
	ctx := context.Background()

	_, err := table.Upsert(ctx, wishlistRow("1", "Cafe A"))
	require.NoError(t, err)

	collection.Read(ctx)
	clock.Advance(6 * time.Minute)

	rows, source := collection.ReadSourced(ctx)
	require.Len(t, rows, 1)
	require.Equal(t, SourceRemote, source)
	require.Equal(t, 2, table.calls())
}

func TestReadFallsBackToStaleCacheOnRemoteFailure(t *testing.T) {
	collection, table, clock := newWishlistCollection(t)
	ctx := context.Background()

	_, err := table.Upsert(ctx, wishlistRow("1", "Cafe A"))
	require.NoError(t, err)
	collection.Read(ctx)

	clock.Advance(time.Hour)
	table.setFailFetch(true)

	rows, source := collection.ReadSourced(ctx)
	require.Equal(t, SourceStale, source)
	require.Len(t, rows, 1, "stale payload beats an empty answer")
	require.Equal(t, "Cafe A", rows[0].Title)
}

func TestReadReturnsEmptyWhenRemoteFailsAndCacheIsCold(t *testing.T) {
	collection, table, _ := newWishlistCollection(t)
	table.setFailFetch(true)

	rows, source := collection.ReadSourced(context.Background())
	require.NotNil(t, rows)
	require.Empty(t, rows)
	require.Equal(t, SourceEmpty, source)
}

func TestWriteIsVisibleBeforeRemoteResolves(t *testing.T) {
	collection, table, _ := newWishlistCollection(t)
	ctx := context.Background()

	table.setFailWrites(true)

	written := collection.Write(ctx, wishlistRow("2", "Cafe B"))
	require.Equal(t, "2", written.RowKey())

	rows := collection.Read(ctx)
	collection.Flush()

	require.Len(t, rows, 1)
	require.Equal(t, "Cafe B", rows[0].Title)
	require.Equal(t, 0, table.count(), "remote failure leaves the optimistic local value in place")
}

func TestWriteMergesIntoExistingPayload(t *testing.T) {
	collection, table, clock := newWishlistCollection(t)
	ctx := context.Background()

	_, err := table.Upsert(ctx, wishlistRow("1", "Cafe A"))
	require.NoError(t, err)
	collection.Read(ctx)

	clock.Advance(2 * time.Minute)
	collection.Write(ctx, wishlistRow("2", "Cafe B"))
	collection.Flush()

	rows := collection.Read(ctx)
	require.Len(t, rows, 2)
	require.Equal(t, 1, table.calls(), "optimistic write restamps the cache, keeping reads local")
	require.Equal(t, 2, table.count(), "background upsert reached the remote")
}

func TestWriteReplacesRowWithSameKey(t *testing.T) {
	collection, _, _ := newWishlistCollection(t)
	ctx := context.Background()

	collection.Write(ctx, wishlistRow("1", "Cafe A"))
	collection.Write(ctx, wishlistRow("1", "Cafe A, renamed"))
	collection.Flush()

	rows := collection.Read(ctx)
	require.Len(t, rows, 1)
	require.Equal(t, "Cafe A, renamed", rows[0].Title)
}

func TestPatchMergesFields(t *testing.T) {
	collection, table, _ := newWishlistCollection(t)
	ctx := context.Background()

	collection.Write(ctx, wishlistRow("1", "Cafe A"))

	patched, err := collection.Patch(ctx, "1", map[string]any{"done": true, "priority": 1})
	require.NoError(t, err)
	require.True(t, patched.Done)
	require.Equal(t, 1, patched.Priority)
	require.Equal(t, "Cafe A", patched.Title, "unnamed fields survive the merge")

	collection.Flush()
	require.Equal(t, 1, table.count())
}

func TestPatchIgnoresIdentityFields(t *testing.T) {
	collection, _, _ := newWishlistCollection(t)
	ctx := context.Background()

	collection.Write(ctx, wishlistRow("1", "Cafe A"))

	patched, err := collection.Patch(ctx, "1", map[string]any{"id": "evil", "done": true})
	require.NoError(t, err)
	require.Equal(t, "1", patched.RowKey())
	collection.Flush()
}

func TestPatchUnknownKeyReportsNotFound(t *testing.T) {
	collection, _, _ := newWishlistCollection(t)

	_, err := collection.Patch(context.Background(), "missing", map[string]any{"done": true})
	require.ErrorIs(t, err, ErrRowNotFound)
}

func TestDeleteRemovesLocallyAndRemotely(t *testing.T) {
	collection, table, _ := newWishlistCollection(t)
	ctx := context.Background()

	collection.Write(ctx, wishlistRow("1", "Cafe A"))
	collection.Write(ctx, wishlistRow("2", "Cafe B"))
	collection.Flush()

	collection.Delete(ctx, "1")

	rows := collection.Read(ctx)
	require.Len(t, rows, 1)
	require.Equal(t, "2", rows[0].RowKey())

	collection.Flush()
	require.Equal(t, 1, table.count())
}

func TestDeleteOnColdCacheDoesNotMaskRemoteRows(t *testing.T) {
	collection, table, _ := newWishlistCollection(t)
	ctx := context.Background()

	_, err := table.Upsert(ctx, wishlistRow("1", "Cafe A"))
	require.NoError(t, err)
	_, err = table.Upsert(ctx, wishlistRow("2", "Cafe B"))
	require.NoError(t, err)
	_, err = table.Upsert(ctx, wishlistRow("3", "Cafe C"))
	require.NoError(t, err)

	// No read has populated the cache yet.
	collection.Delete(ctx, "1")
	collection.Flush()

	rows, source := collection.ReadSourced(ctx)
	require.Equal(t, SourceRemote, source, "a cold-cache delete must not stamp a fresh empty payload")
	require.Len(t, rows, 2)
	require.Equal(t, "2", rows[0].RowKey())
	require.Equal(t, "3", rows[1].RowKey())
}

func TestOptimisticWriteReconcilesAfterTTL(t *testing.T) {
	// The concrete walk-through from the design discussion: read at t=0,
	// cached read and optimistic write at t=2min, reconciling fetch at t=6min.
	collection, table, clock := newWishlistCollection(t)
	ctx := context.Background()

	_, err := table.Upsert(ctx, wishlistRow("1", "Cafe A"))
	require.NoError(t, err)

	rows := collection.Read(ctx)
	require.Len(t, rows, 1)

	clock.Advance(2 * time.Minute)
	rows = collection.Read(ctx)
	require.Len(t, rows, 1)
	require.Equal(t, 1, table.calls())

	collection.Write(ctx, wishlistRow("2", "Cafe B"))
	rows = collection.Read(ctx)
	require.Len(t, rows, 2, "write visible synchronously")

	collection.Flush()

	clock.Advance(4 * time.Minute)
	rows, source := collection.ReadSourced(ctx)
	require.Equal(t, SourceRemote, source)
	require.Len(t, rows, 2, "post-TTL fetch agrees with the earlier optimistic write")
}

func TestRevalidateForcesFetchAndSurfacesErrors(t *testing.T) {
	collection, table, _ := newWishlistCollection(t)
	ctx := context.Background()

	_, err := table.Upsert(ctx, wishlistRow("1", "Cafe A"))
	require.NoError(t, err)

	collection.Read(ctx)
	require.NoError(t, collection.Revalidate(ctx))
	require.Equal(t, 2, table.calls(), "revalidate ignores freshness")

	table.setFailFetch(true)
	require.Error(t, collection.Revalidate(ctx))
}

func TestStatusReportsCacheCondition(t *testing.T) {
	collection, table, clock := newWishlistCollection(t)
	ctx := context.Background()

	status := collection.Status()
	require.False(t, status.Cached)
	require.False(t, status.Fresh)

	_, err := table.Upsert(ctx, wishlistRow("1", "Cafe A"))
	require.NoError(t, err)
	collection.Read(ctx)

	clock.Advance(time.Minute)
	status = collection.Status()
	require.True(t, status.Cached)
	require.True(t, status.Fresh)
	require.Equal(t, 1, status.Rows)
	require.Equal(t, time.Minute.Milliseconds(), status.AgeMillis)

	clock.Advance(10 * time.Minute)
	require.False(t, collection.Status().Fresh)
}
