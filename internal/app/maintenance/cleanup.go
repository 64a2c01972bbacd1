package maintenance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	iauth "github.com/jeffjeff017/jp-travel-webapp-sub001/internal/auth"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/syncstore"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/logger"
)

const (
	defaultSessionSpec = "@hourly"
	defaultRefreshSpec = "@every 5m"
)

// Cleaner coordinates background maintenance tasks: purging expired sessions
// and revalidating stale synced domains so the cache stays warm between
// requests.
type Cleaner struct {
	sessions *iauth.SessionService
	registry *syncstore.Registry
	cron     *cron.Cron
	now      func() time.Time
	log      *zap.Logger
	enabled  bool

	sessionSchedule string
	refreshSchedule string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithNow overrides the clock used for scheduling and cleanup comparisons.
func WithNow(now func() time.Time) Option {
	return func(cleaner *Cleaner) {
		if now != nil {
			cleaner.now = now
		}
	}
}

// WithSessionSchedule overrides the cron specification for session cleanup.
func WithSessionSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.sessionSchedule = spec
		}
	}
}

// WithRefreshSchedule overrides the cron specification for stale-domain revalidation.
func WithRefreshSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.refreshSchedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner with sensible defaults. Any nil dependency results in
// the corresponding job being skipped.
func NewCleaner(sessions *iauth.SessionService, registry *syncstore.Registry, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		sessions:        sessions,
		registry:        registry,
		now:             time.Now,
		sessionSchedule: defaultSessionSpec,
		refreshSchedule: defaultRefreshSpec,
		log:             logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	cleaner.enabled = cleaner.sessions != nil || cleaner.registry != nil

	return cleaner
}

// Start registers maintenance jobs with the cron scheduler and launches it if at least one job is enabled.
func (c *Cleaner) Start() error {
	if !c.enabled {
		return nil
	}

	if c.sessions != nil {
		if _, err := c.cron.AddFunc(c.sessionSchedule, func() {
			ctx := context.Background()
			if _, err := c.sessions.CleanupExpired(ctx); err != nil {
				c.log.Warn("session cleanup failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}

	if c.registry != nil {
		if _, err := c.cron.AddFunc(c.refreshSchedule, func() {
			ctx := context.Background()
			if err := c.registry.RevalidateStale(ctx); err != nil {
				c.log.Warn("background revalidation incomplete", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes all configured maintenance routines sequentially. Primarily used in tests
// and during graceful shutdown.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error

	if c.sessions != nil {
		if _, err := c.sessions.CleanupExpired(ctx); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	if c.registry != nil {
		if err := c.registry.RevalidateStale(ctx); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	return errs
}
