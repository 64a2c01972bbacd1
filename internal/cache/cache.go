package cache

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/logger"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/metrics"
)

// Entry is one cached collection snapshot. Exactly one entry exists per
// domain; the payload is always replaced wholesale, never merged.
type Entry struct {
	Domain    string          `json:"domain"`
	Payload   json.RawMessage `json:"payload"`
	WrittenAt time.Time       `json:"written_at"`
}

// Backend persists serialised entries keyed by domain name.
type Backend interface {
	Load(domain string) ([]byte, bool, error)
	Store(domain string, blob []byte) error
	Remove(domain string) error
	Domains() ([]string, error)
}

// Option customises a Cache.
type Option func(*Cache)

// WithClock overrides the time source used to stamp entries.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithClearable configures the allow-list of domains whose entries may be
// evicted to recover from a full backend. Only domains that are pure mirrors
// of remote truth belong here; evicting a domain that holds unsynced
// optimistic writes would lose data.
func WithClearable(domains []string) Option {
	return func(c *Cache) {
		c.clearable = make(map[string]struct{}, len(domains))
		for _, domain := range domains {
			if domain != "" {
				c.clearable[domain] = struct{}{}
			}
		}
	}
}

// Cache is the process-local store shared by every synced collection. One
// instance serves all domains, partitioned by domain key and guarded by a
// single mutex.
//
// The cache is strictly an optimisation: every failure path degrades to a
// cache miss and no method returns an error.
type Cache struct {
	mu        sync.Mutex
	backend   Backend
	clearable map[string]struct{}
	now       func() time.Time
	log       *zap.Logger
}

// New builds a Cache over the supplied backend.
func New(backend Backend, opts ...Option) *Cache {
	c := &Cache{
		backend:   backend,
		clearable: map[string]struct{}{},
		now:       time.Now,
		log:       logger.WithModule("cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the entry for a domain. Absent or unreadable entries report a
// miss; a corrupt payload is discarded so the next read goes remote.
func (c *Cache) Get(domain string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.getLocked(domain)
}

func (c *Cache) getLocked(domain string) (Entry, bool) {
	blob, ok, err := c.backend.Load(domain)
	if err != nil {
		c.log.Warn("cache load failed", zap.String("domain", domain), zap.Error(err))
		return Entry{}, false
	}
	if !ok {
		return Entry{}, false
	}

	var entry Entry
	if err := json.Unmarshal(blob, &entry); err != nil || entry.Domain != domain {
		c.log.Warn("discarding corrupt cache entry", zap.String("domain", domain))
		_ = c.backend.Remove(domain)
		return Entry{}, false
	}

	return entry, true
}

// Set replaces the domain's entry with the serialised payload and stamps the
// current time. A failed backend write triggers one eviction pass over the
// clearable allow-list followed by a single retry; if the retry also fails
// the error is swallowed and the caller proceeds uncached.
func (c *Cache) Set(domain string, payload any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := json.Marshal(payload)
	if err != nil {
		c.log.Warn("cache payload not serialisable", zap.String("domain", domain), zap.Error(err))
		return
	}

	entry := Entry{Domain: domain, Payload: raw, WrittenAt: c.now()}
	blob, err := json.Marshal(entry)
	if err != nil {
		c.log.Warn("cache entry not serialisable", zap.String("domain", domain), zap.Error(err))
		return
	}

	if err := c.backend.Store(domain, blob); err == nil {
		return
	}

	metrics.CacheWriteFailures.WithLabelValues(domain, "initial").Inc()
	c.evictClearable(domain)

	if err := c.backend.Store(domain, blob); err != nil {
		metrics.CacheWriteFailures.WithLabelValues(domain, "retry").Inc()
		c.log.Warn("cache write failed after eviction; proceeding uncached",
			zap.String("domain", domain),
			zap.Error(err),
		)
	}
}

func (c *Cache) evictClearable(keep string) {
	if len(c.clearable) == 0 {
		return
	}

	metrics.CacheEvictions.Inc()
	for domain := range c.clearable {
		if domain == keep {
			continue
		}
		if err := c.backend.Remove(domain); err != nil {
			c.log.Warn("cache eviction failed", zap.String("domain", domain), zap.Error(err))
		}
	}
}

// IsFresh reports whether the domain has an entry younger than ttl. Absent
// entries are never fresh.
func (c *Cache) IsFresh(domain string, ttl time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.getLocked(domain)
	if !ok {
		return false
	}
	return c.now().Sub(entry.WrittenAt) < ttl
}

// Age returns how long ago the domain's entry was written.
func (c *Cache) Age(domain string) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.getLocked(domain)
	if !ok {
		return 0, false
	}
	return c.now().Sub(entry.WrittenAt), true
}

// Clear removes the domain's entry.
func (c *Cache) Clear(domain string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.backend.Remove(domain); err != nil {
		c.log.Warn("cache clear failed", zap.String("domain", domain), zap.Error(err))
	}
}

// ClearAll removes every entry the backend knows about.
func (c *Cache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	domains, err := c.backend.Domains()
	if err != nil {
		c.log.Warn("cache enumeration failed", zap.Error(err))
		return
	}
	for _, domain := range domains {
		if err := c.backend.Remove(domain); err != nil {
			c.log.Warn("cache clear failed", zap.String("domain", domain), zap.Error(err))
		}
	}
}
