package app

import (
	"fmt"
	"strings"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/cache"
)

// BuildCache assembles the local cache from the configured backend. The
// allow-list of clearable domains is applied so eviction under storage
// pressure never touches protected domains.
func (c CacheConfig) BuildCache() (*cache.Cache, error) {
	backend, err := c.buildBackend()
	if err != nil {
		return nil, err
	}
	return cache.New(backend, cache.WithClearable(c.Clearable)), nil
}

func (c CacheConfig) buildBackend() (cache.Backend, error) {
	switch strings.ToLower(strings.TrimSpace(c.Backend)) {
	case "", "memory":
		if c.MaxBytes > 0 {
			return cache.NewMemoryBackend(cache.WithMaxBytes(c.MaxBytes)), nil
		}
		return cache.NewMemoryBackend(), nil
	case "file":
		dir := strings.TrimSpace(c.Dir)
		if dir == "" {
			return nil, fmt.Errorf("config: cache.dir is required for the file backend")
		}
		return cache.NewFileBackend(dir)
	default:
		return nil, fmt.Errorf("config: unsupported cache backend %q", c.Backend)
	}
}
