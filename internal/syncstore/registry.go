package syncstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/cache"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/models"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/remote"
)

// Domain names double as remote table identifiers and local cache keys.
const (
	DomainTravelers    = "users"
	DomainWishlist     = "wishlist_items"
	DomainChecklist    = "checklist_states"
	DomainDestinations = "destinations"
	DomainSettings     = "site_settings"
	DomainExpenses     = "expenses"
	DomainTripEntries  = "trip_entries"
)

// DomainStatus is the diagnostic view of one domain's cache slot.
type DomainStatus struct {
	Domain    string `json:"domain"`
	Cached    bool   `json:"cached"`
	Fresh     bool   `json:"fresh"`
	Rows      int    `json:"rows"`
	AgeMillis int64  `json:"age_ms"`
	TTLMillis int64  `json:"ttl_ms"`
}

// Synced is the type-erased surface shared by every collection, used for
// diagnostics and the scheduled refresher.
type Synced interface {
	Domain() string
	Status() DomainStatus
	Revalidate(ctx context.Context) error
	Flush()
}

// Backends selects the remote store implementation. When REST is set it
// wins; otherwise the relational database handle is used.
type Backends struct {
	DB   *gorm.DB
	REST *remote.Client
}

// Options tunes registry-wide behaviour.
type Options struct {
	DefaultTTL time.Duration
	TTLs       map[string]time.Duration
	Clock      func() time.Time
}

func (o Options) ttlFor(domain string, fallback time.Duration) time.Duration {
	if ttl, ok := o.TTLs[domain]; ok && ttl > 0 {
		return ttl
	}
	if o.DefaultTTL > 0 {
		return o.DefaultTTL
	}
	return fallback
}

// Registry owns the seven synced collections sharing one local cache.
type Registry struct {
	Travelers    *Collection[models.User]
	Wishlist     *Collection[models.WishlistItem]
	Checklist    *Collection[models.ChecklistState]
	Destinations *Collection[models.Destination]
	Settings     *Collection[models.SiteSetting]
	Expenses     *Collection[models.Expense]
	TripEntries  *Collection[models.TripEntry]

	all []Synced
}

// NewRegistry wires every domain against the configured backend.
func NewRegistry(local *cache.Cache, backends Backends, opts Options) (*Registry, error) {
	if local == nil {
		return nil, errors.New("syncstore: local cache is required")
	}
	if backends.DB == nil && backends.REST == nil {
		return nil, errors.New("syncstore: a remote backend is required")
	}

	r := &Registry{}
	var err error

	if r.Travelers, err = newDomain[models.User](local, backends, DomainTravelers, DefaultTTL, opts); err != nil {
		return nil, err
	}
	if r.Wishlist, err = newDomain[models.WishlistItem](local, backends, DomainWishlist, DefaultTTL, opts); err != nil {
		return nil, err
	}
	if r.Checklist, err = newDomain[models.ChecklistState](local, backends, DomainChecklist, DefaultTTL, opts); err != nil {
		return nil, err
	}
	if r.Destinations, err = newDomain[models.Destination](local, backends, DomainDestinations, DefaultTTL, opts); err != nil {
		return nil, err
	}
	if r.Settings, err = newDomain[models.SiteSetting](local, backends, DomainSettings, LongTTL, opts); err != nil {
		return nil, err
	}
	if r.Expenses, err = newDomain[models.Expense](local, backends, DomainExpenses, DefaultTTL, opts); err != nil {
		return nil, err
	}
	if r.TripEntries, err = newDomain[models.TripEntry](local, backends, DomainTripEntries, DefaultTTL, opts); err != nil {
		return nil, err
	}

	r.all = []Synced{
		r.Travelers, r.Wishlist, r.Checklist, r.Destinations,
		r.Settings, r.Expenses, r.TripEntries,
	}
	return r, nil
}

func newDomain[T remote.Row](local *cache.Cache, backends Backends, domain string, fallbackTTL time.Duration, opts Options) (*Collection[T], error) {
	var table remote.Table[T]
	switch {
	case backends.REST != nil:
		table = remote.NewRESTTable[T](backends.REST, domain)
	default:
		dbTable, err := remote.NewDatabaseTable[T](backends.DB, domain)
		if err != nil {
			return nil, err
		}
		table = dbTable
	}

	collection, err := New[T](Config{
		Domain: domain,
		TTL:    opts.ttlFor(domain, fallbackTTL),
		Clock:  opts.Clock,
	}, table, local)
	if err != nil {
		return nil, fmt.Errorf("syncstore: build %s: %w", domain, err)
	}
	return collection, nil
}

// Domains returns the type-erased collections in registration order.
func (r *Registry) Domains() []Synced {
	return r.all
}

// Lookup finds a collection by domain name.
func (r *Registry) Lookup(domain string) (Synced, bool) {
	for _, collection := range r.all {
		if collection.Domain() == domain {
			return collection, true
		}
	}
	return nil, false
}

// Statuses reports every domain's cache condition.
func (r *Registry) Statuses() []DomainStatus {
	statuses := make([]DomainStatus, 0, len(r.all))
	for _, collection := range r.all {
		statuses = append(statuses, collection.Status())
	}
	return statuses
}

// RevalidateStale re-fetches every domain whose cache has outlived its TTL,
// aggregating failures. Fresh domains are skipped so the scheduled refresher
// never floods the remote.
func (r *Registry) RevalidateStale(ctx context.Context) error {
	var errs error
	for _, collection := range r.all {
		if collection.Status().Fresh {
			continue
		}
		if err := collection.Revalidate(ctx); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// FlushAll drains every collection's in-flight background writes.
func (r *Registry) FlushAll() {
	for _, collection := range r.all {
		collection.Flush()
	}
}
