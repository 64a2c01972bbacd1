package app

import (
	"strings"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/remote"
)

// UsesREST reports whether the hosted row API should back the collections.
func (c RemoteConfig) UsesREST() bool {
	return strings.EqualFold(strings.TrimSpace(c.Mode), "rest")
}

// RESTClientConfig converts RemoteConfig into the remote package representation.
func (c RemoteConfig) RESTClientConfig() remote.RESTConfig {
	retries := c.REST.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return remote.RESTConfig{
		BaseURL:    strings.TrimSpace(c.REST.BaseURL),
		APIKey:     strings.TrimSpace(c.REST.APIKey),
		Timeout:    c.REST.Timeout,
		MaxRetries: uint64(retries),
	}
}
