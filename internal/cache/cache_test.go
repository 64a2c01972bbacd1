package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

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

type row struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestSetStampsAndGetRoundTrips(t *testing.T) {
	clock := newFakeClock()
	c := New(NewMemoryBackend(), WithClock(clock.Now))

	c.Set("wishlist_items", []row{{ID: "1", Name: "Cafe A"}})

	entry, ok := c.Get("wishlist_items")
	require.True(t, ok)
	require.Equal(t, "wishlist_items", entry.Domain)
	require.Equal(t, clock.Now(), entry.WrittenAt)
	require.JSONEq(t, `[{"id":"1","name":"Cafe A"}]`, string(entry.Payload))
}

func TestIsFreshRespectsTTL(t *testing.T) {
	clock := newFakeClock()
	c := New(NewMemoryBackend(), WithClock(clock.Now))

	require.False(t, c.IsFresh("wishlist_items", 5*time.Minute), "absent entry must not be fresh")

	c.Set("wishlist_items", []row{{ID: "1"}})
	require.True(t, c.IsFresh("wishlist_items", 5*time.Minute))

	clock.Advance(2 * time.Minute)
	require.True(t, c.IsFresh("wishlist_items", 5*time.Minute))

	clock.Advance(4 * time.Minute)
	require.False(t, c.IsFresh("wishlist_items", 5*time.Minute))
}

func TestCorruptEntryIsTreatedAsMiss(t *testing.T) {
	backend := NewMemoryBackend()
	c := New(backend)

	require.NoError(t, backend.Store("users", []byte("{not json")))

	_, ok := c.Get("users")
	require.False(t, ok)

	// The corrupt blob is discarded so a later write starts clean.
	_, found, err := backend.Load("users")
	require.NoError(t, err)
	require.False(t, found)
}

func TestDomainMismatchIsTreatedAsMiss(t *testing.T) {
	backend := NewMemoryBackend()
	c := New(backend)

	require.NoError(t, backend.Store("users", []byte(`{"domain":"expenses","payload":[],"written_at":"2026-04-01T09:00:00Z"}`)))

	_, ok := c.Get("users")
	require.False(t, ok)
}

func TestSetEvictsClearableDomainsAndRetries(t *testing.T) {
	backend := NewMemoryBackend(WithMaxBytes(360))
	c := New(backend, WithClearable([]string{"destinations", "trip_entries"}))

	filler := []row{{ID: "1", Name: "a long enough payload to crowd the backend"}}
	c.Set("destinations", filler)
	c.Set("trip_entries", filler)

	// This write does not fit until the clearable domains are evicted.
	c.Set("checklist_states", []row{{ID: "2", Name: "pack the JR passes"}})

	_, ok := c.Get("checklist_states")
	require.True(t, ok, "write must succeed after eviction frees space")

	_, ok = c.Get("destinations")
	require.False(t, ok)
	_, ok = c.Get("trip_entries")
	require.False(t, ok)
}

func TestSetSwallowsFailureWhenEvictionDoesNotHelp(t *testing.T) {
	backend := NewMemoryBackend(WithMaxBytes(10))
	c := New(backend, WithClearable([]string{"destinations"}))

	require.NotPanics(t, func() {
		c.Set("wishlist_items", []row{{ID: "1", Name: "still far too large for the cap"}})
	})

	_, ok := c.Get("wishlist_items")
	require.False(t, ok, "operation proceeds uncached")
}

func TestEvictionNeverRemovesTheWritingDomain(t *testing.T) {
	backend := NewMemoryBackend(WithMaxBytes(200))
	c := New(backend, WithClearable([]string{"wishlist_items"}))

	c.Set("wishlist_items", []row{{ID: "1", Name: "short"}})
	// Too large even after eviction; the prior entry must not be the victim.
	c.Set("wishlist_items", []row{{ID: "1", Name: "x"}, {ID: "2", Name: "a payload big enough to exceed the two hundred byte cap easily, with plenty of extra text appended so the serialised entry cannot possibly squeeze under the limit"}})

	entry, ok := c.Get("wishlist_items")
	require.True(t, ok)
	require.JSONEq(t, `[{"id":"1","name":"short"}]`, string(entry.Payload))
}

func TestClearAndClearAll(t *testing.T) {
	c := New(NewMemoryBackend())

	c.Set("users", []row{{ID: "1"}})
	c.Set("expenses", []row{{ID: "2"}})

	c.Clear("users")
	_, ok := c.Get("users")
	require.False(t, ok)

	c.ClearAll()
	_, ok = c.Get("expenses")
	require.False(t, ok)
}

func TestAgeReportsTimeSinceWrite(t *testing.T) {
	clock := newFakeClock()
	c := New(NewMemoryBackend(), WithClock(clock.Now))

	_, ok := c.Age("users")
	require.False(t, ok)

	c.Set("users", []row{{ID: "1"}})
	clock.Advance(90 * time.Second)

	age, ok := c.Age("users")
	require.True(t, ok)
	require.Equal(t, 90*time.Second, age)
}
