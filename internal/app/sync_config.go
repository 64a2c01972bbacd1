package app

import (
	"strings"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/syncstore"
)

const defaultRefreshSchedule = "@every 5m"

// RegistryOptions converts SyncConfig into syncstore parameters.
func (c SyncConfig) RegistryOptions() syncstore.Options {
	return syncstore.Options{
		DefaultTTL: c.DefaultTTL,
		TTLs:       c.TTLs,
	}
}

// Schedule returns the cron expression for the background revalidation job.
func (c SyncConfig) Schedule() string {
	if schedule := strings.TrimSpace(c.RefreshSchedule); schedule != "" {
		return schedule
	}
	return defaultRefreshSchedule
}
