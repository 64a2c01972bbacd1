package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheReads counts cache lookups per domain and outcome (fresh|stale|miss).
	CacheReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travelapp_cache_reads_total",
			Help: "Total number of local cache lookups",
		},
		[]string{"domain", "outcome"},
	)

	// CacheWriteFailures counts failed cache writes per domain and stage (initial|retry).
	CacheWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travelapp_cache_write_failures_total",
			Help: "Total number of swallowed local cache write failures",
		},
		[]string{"domain", "stage"},
	)

	// CacheEvictions counts allow-list eviction passes triggered by failed writes.
	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "travelapp_cache_evictions_total",
			Help: "Total number of clearable-domain eviction passes",
		},
	)

	// RemoteFetches records remote fetch outcomes per domain (success|empty|error).
	RemoteFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travelapp_remote_fetches_total",
			Help: "Total number of remote fetch-all calls",
		},
		[]string{"domain", "result"},
	)

	// RemoteWrites records asynchronous remote mutations per domain, operation
	// (upsert|delete) and result (success|error).
	RemoteWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travelapp_remote_writes_total",
			Help: "Total number of remote upsert and delete calls",
		},
		[]string{"domain", "op", "result"},
	)

	// MigrationRuns counts cache-to-remote migration attempts per domain.
	MigrationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travelapp_migration_runs_total",
			Help: "Total number of local-to-remote migration attempts",
		},
		[]string{"domain"},
	)

	// MigrationRows counts rows handled during migrations per domain and result (pushed|failed).
	MigrationRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travelapp_migration_rows_total",
			Help: "Total number of rows pushed during migrations",
		},
		[]string{"domain", "result"},
	)

	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travelapp_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// ActiveSessions tracks active sessions (not expired/revoked).
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "travelapp_active_sessions",
			Help: "Number of active sessions",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "travelapp_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
