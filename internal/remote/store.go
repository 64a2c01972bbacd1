package remote

import "context"

// Row is any record with a stable identifier shared by the local cache and
// the remote store.
type Row interface {
	RowKey() string
}

// Table is the per-domain persistence capability consumed by the sync layer.
//
// Implementations apply insert-or-replace-by-key semantics for Upsert and
// report a missing backing table as an empty domain rather than an error, so
// first runs work without pre-provisioning. Transport-level timeouts and
// retries are the implementation's concern; callers issue a single attempt.
type Table[T Row] interface {
	FetchAll(ctx context.Context) ([]T, error)
	Upsert(ctx context.Context, row T) (T, error)
	Delete(ctx context.Context, key string) error
}
