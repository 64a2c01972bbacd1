package syncstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/cache"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/remote"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/logger"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/metrics"
)

// DefaultTTL applies to high-churn domains; rarely-changing domains such as
// site settings use LongTTL unless overridden.
const (
	DefaultTTL = 5 * time.Minute
	LongTTL    = 24 * time.Hour
)

// Source describes where a read's payload came from.
type Source string

const (
	SourceCache  Source = "cache"
	SourceRemote Source = "remote"
	SourceStale  Source = "stale"
	SourceEmpty  Source = "empty"
)

// ErrRowNotFound is returned by Patch when the key has no local row.
var ErrRowNotFound = errors.New("syncstore: row not found")

// Config parameterises a collection.
type Config struct {
	Domain string
	TTL    time.Duration
	Clock  func() time.Time
}

// Collection wraps one domain's remote table and its slot in the shared
// local cache. Reads are cache-first within the TTL and fall back to the
// stale payload when the remote is unreachable; writes apply locally first
// and push to the remote without blocking the caller. A later successful
// fetch reconciles any divergence by overwriting local state with server
// truth.
//
// Racing writes to the same key are not queued or serialised: the later
// local write wins locally and whichever remote call lands last wins
// remotely. That window is accepted for this low-concurrency tool.
type Collection[T remote.Row] struct {
	domain   string
	ttl      time.Duration
	cache    *cache.Cache
	table    remote.Table[T]
	migrator *Migrator[T]
	log      *zap.Logger
	now      func() time.Time

	mu sync.Mutex
	wg sync.WaitGroup
}

// New builds a collection for one domain.
func New[T remote.Row](cfg Config, table remote.Table[T], local *cache.Cache) (*Collection[T], error) {
	domain := strings.TrimSpace(cfg.Domain)
	if domain == "" {
		return nil, errors.New("syncstore: domain is required")
	}
	if table == nil {
		return nil, fmt.Errorf("syncstore: %s: remote table is required", domain)
	}
	if local == nil {
		return nil, fmt.Errorf("syncstore: %s: local cache is required", domain)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := time.Now
	if cfg.Clock != nil {
		now = cfg.Clock
	}

	return &Collection[T]{
		domain:   domain,
		ttl:      ttl,
		cache:    local,
		table:    table,
		migrator: NewMigrator[T](domain, table),
		log:      logger.WithModule("syncstore").With(zap.String("domain", domain)),
		now:      now,
	}, nil
}

// Domain returns the collection's domain name.
func (c *Collection[T]) Domain() string { return c.domain }

// TTL returns the freshness window.
func (c *Collection[T]) TTL() time.Duration { return c.ttl }

// Read returns the domain's rows. It never returns an error: remote
// failures degrade to the stale cached payload when one exists, otherwise to
// an empty slice.
func (c *Collection[T]) Read(ctx context.Context) []T {
	rows, _ := c.ReadSourced(ctx)
	return rows
}

// ReadSourced is Read plus the provenance of the returned payload.
func (c *Collection[T]) ReadSourced(ctx context.Context) ([]T, Source) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cache.IsFresh(c.domain, c.ttl) {
		if rows, ok := c.cachedRows(); ok {
			metrics.CacheReads.WithLabelValues(c.domain, "fresh").Inc()
			return rows, SourceCache
		}
	}

	return c.refreshLocked(ctx)
}

// Revalidate forces a remote fetch regardless of freshness. It is used by
// the scheduled refresher and the cache admin endpoint; unlike Read it
// surfaces the fetch error so callers can log or report it.
func (c *Collection[T]) Revalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.table.FetchAll(ctx)
	if err != nil {
		metrics.RemoteFetches.WithLabelValues(c.domain, "error").Inc()
		return fmt.Errorf("syncstore: revalidate %s: %w", c.domain, err)
	}

	c.storeFetched(ctx, rows)
	return nil
}

// refreshLocked performs the remote-visiting half of the read path. The
// caller holds c.mu.
func (c *Collection[T]) refreshLocked(ctx context.Context) ([]T, Source) {
	metrics.CacheReads.WithLabelValues(c.domain, "miss").Inc()

	rows, err := c.table.FetchAll(ctx)
	if err != nil {
		metrics.RemoteFetches.WithLabelValues(c.domain, "error").Inc()
		c.log.Warn("remote fetch failed", zap.Error(err))

		if stale, ok := c.cachedRows(); ok {
			metrics.CacheReads.WithLabelValues(c.domain, "stale").Inc()
			return stale, SourceStale
		}
		return []T{}, SourceEmpty
	}

	return c.storeFetched(ctx, rows)
}

// storeFetched reconciles a successful fetch into the cache. An empty remote
// result triggers the one-shot legacy migration when the cache still holds
// rows from a previous deployment.
func (c *Collection[T]) storeFetched(ctx context.Context, rows []T) ([]T, Source) {
	if len(rows) == 0 {
		metrics.RemoteFetches.WithLabelValues(c.domain, "empty").Inc()

		if local, ok := c.cachedRows(); ok && len(local) > 0 {
			if err := c.migrator.Run(ctx, local); err != nil {
				c.log.Warn("legacy cache migration incomplete", zap.Error(err))
			}
			// Local rows stay authoritative; restamping the cache keeps the
			// freshness window from re-triggering the migration check.
			c.cache.Set(c.domain, local)
			return local, SourceCache
		}

		c.cache.Set(c.domain, []T{})
		return []T{}, SourceEmpty
	}

	metrics.RemoteFetches.WithLabelValues(c.domain, "success").Inc()
	c.cache.Set(c.domain, rows)
	return rows, SourceRemote
}

// Write applies a create-or-full-update. The local cache is updated before
// Write returns, so a Read in the same tick observes the row; the remote
// upsert runs in the background and its failure is logged, not surfaced.
func (c *Collection[T]) Write(ctx context.Context, row T) T {
	c.mu.Lock()
	rows, _ := c.cachedRows()
	rows = upsertByKey(rows, row)
	c.cache.Set(c.domain, rows)
	c.mu.Unlock()

	c.async(ctx, "upsert", func(ctx context.Context) error {
		_, err := c.table.Upsert(ctx, row)
		return err
	})

	return row
}

// Patch merges the supplied fields into the row with the given key. Keys
// without a local row report ErrRowNotFound; identity and timestamp fields
// cannot be patched.
func (c *Collection[T]) Patch(ctx context.Context, key string, fields map[string]any) (T, error) {
	var zero T

	c.mu.Lock()
	rows, _ := c.cachedRows()

	idx := -1
	for i, row := range rows {
		if row.RowKey() == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return zero, fmt.Errorf("%w: %s/%s", ErrRowNotFound, c.domain, key)
	}

	merged, err := mergeRow(rows[idx], fields)
	if err != nil {
		c.mu.Unlock()
		return zero, fmt.Errorf("syncstore: patch %s/%s: %w", c.domain, key, err)
	}

	rows[idx] = merged
	c.cache.Set(c.domain, rows)
	c.mu.Unlock()

	c.async(ctx, "upsert", func(ctx context.Context) error {
		_, err := c.table.Upsert(ctx, merged)
		return err
	})

	return merged, nil
}

// Delete removes the row locally and fires the remote delete in the
// background. Deleting an unknown key is a no-op locally and remotely. With
// a cold cache the local prune is skipped entirely: stamping a fresh empty
// payload would hide the remote's surviving rows for a whole TTL window.
func (c *Collection[T]) Delete(ctx context.Context, key string) {
	c.mu.Lock()
	if rows, ok := c.cachedRows(); ok {
		kept := rows[:0]
		for _, row := range rows {
			if row.RowKey() != key {
				kept = append(kept, row)
			}
		}
		c.cache.Set(c.domain, kept)
	}
	c.mu.Unlock()

	c.async(ctx, "delete", func(ctx context.Context) error {
		return c.table.Delete(ctx, key)
	})
}

// Flush blocks until every in-flight background remote call has finished.
// Used by tests and during graceful shutdown.
func (c *Collection[T]) Flush() {
	c.wg.Wait()
}

// Status reports the domain's cache condition for diagnostics.
func (c *Collection[T]) Status() DomainStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := DomainStatus{Domain: c.domain, TTLMillis: c.ttl.Milliseconds()}
	if rows, ok := c.cachedRows(); ok {
		status.Cached = true
		status.Rows = len(rows)
	}
	if age, ok := c.cache.Age(c.domain); ok {
		status.AgeMillis = age.Milliseconds()
		status.Fresh = age < c.ttl
	}
	return status
}

// cachedRows decodes the cached payload. Any decode failure reads as a
// cache miss.
func (c *Collection[T]) cachedRows() ([]T, bool) {
	entry, ok := c.cache.Get(c.domain)
	if !ok {
		return nil, false
	}

	var rows []T
	if err := json.Unmarshal(entry.Payload, &rows); err != nil {
		c.log.Warn("cached payload undecodable; treating as miss", zap.Error(err))
		return nil, false
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, true
}

// async runs one background remote call. The request context is detached so
// the call survives the originating HTTP request.
func (c *Collection[T]) async(ctx context.Context, op string, fn func(context.Context) error) {
	ctx = context.WithoutCancel(ctx)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		if err := fn(ctx); err != nil {
			metrics.RemoteWrites.WithLabelValues(c.domain, op, "error").Inc()
			c.log.Warn("background remote call failed; local state kept until next sync",
				zap.String("op", op),
				zap.Error(err),
			)
			return
		}
		metrics.RemoteWrites.WithLabelValues(c.domain, op, "success").Inc()
	}()
}

func upsertByKey[T remote.Row](rows []T, row T) []T {
	for i, existing := range rows {
		if existing.RowKey() == row.RowKey() {
			rows[i] = row
			return rows
		}
	}
	return append(rows, row)
}

// mergeRow folds partial fields into a row via its JSON representation, so
// per-domain record types keep their static shape without per-type merge
// code.
func mergeRow[T remote.Row](row T, fields map[string]any) (T, error) {
	var zero T

	encoded, err := json.Marshal(row)
	if err != nil {
		return zero, err
	}

	var bag map[string]any
	if err := json.Unmarshal(encoded, &bag); err != nil {
		return zero, err
	}

	for key, value := range fields {
		switch key {
		case "id", "created_at", "updated_at":
			continue
		}
		bag[key] = value
	}

	remerged, err := json.Marshal(bag)
	if err != nil {
		return zero, err
	}

	var merged T
	if err := json.Unmarshal(remerged, &merged); err != nil {
		return zero, err
	}
	return merged, nil
}
