package syncstore

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/remote"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/logger"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/metrics"
)

// Migrator pushes legacy locally-cached rows into an empty remote domain.
// This is the one-shot upgrade path for installations that predate the
// hosted store: the first remote-visiting read that finds zero remote rows
// but a non-empty local cache replays every local row upward.
//
// No completion state is persisted. Idempotence relies on the remote's
// upsert-by-key semantics, so a re-run after a partial failure overwrites
// rather than duplicates; the attempt recurs whenever the qualifying
// condition recurs.
type Migrator[T remote.Row] struct {
	domain string
	table  remote.Table[T]
	log    *zap.Logger
}

// NewMigrator builds a migrator for one domain.
func NewMigrator[T remote.Row](domain string, table remote.Table[T]) *Migrator[T] {
	return &Migrator[T]{
		domain: domain,
		table:  table,
		log:    logger.WithModule("migration").With(zap.String("domain", domain)),
	}
}

// Run upserts every row, collecting per-row failures into one aggregate
// error. Local data is never deleted, whatever the outcome; a failed run
// simply leaves the system on its local cache until the next attempt.
func (m *Migrator[T]) Run(ctx context.Context, rows []T) error {
	if len(rows) == 0 {
		return nil
	}

	metrics.MigrationRuns.WithLabelValues(m.domain).Inc()

	var errs error
	pushed := 0
	for _, row := range rows {
		if _, err := m.table.Upsert(ctx, row); err != nil {
			metrics.MigrationRows.WithLabelValues(m.domain, "failed").Inc()
			errs = multierr.Append(errs, fmt.Errorf("row %s: %w", row.RowKey(), err))
			continue
		}
		metrics.MigrationRows.WithLabelValues(m.domain, "pushed").Inc()
		pushed++
	}

	m.log.Info("pushed legacy cached rows to remote store",
		zap.Int("pushed", pushed),
		zap.Int("failed", len(rows)-pushed),
	)

	return errs
}
