package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	defaultRESTTimeout = 10 * time.Second
	defaultRESTRetries = 2
	retryBaseDelay     = 200 * time.Millisecond
)

// RESTConfig describes the hosted database-as-a-service endpoint. The surface
// is the PostgREST-style row API exposed by services such as Supabase: one
// resource per table, upsert via Prefer: resolution=merge-duplicates, filters
// as query parameters.
type RESTConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries uint64
	HTTPClient *http.Client
}

// Client is the shared HTTP transport used by every RESTTable.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	retries uint64
}

// NewClient validates the configuration and returns a Client.
func NewClient(cfg RESTConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("remote: rest base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("remote: invalid rest base url: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultRESTTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	retries := cfg.MaxRetries
	if retries == 0 {
		retries = defaultRESTRetries
	}

	return &Client{
		baseURL: base,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		http:    httpClient,
		retries: retries,
	}, nil
}

// Ping probes the endpoint for readiness checks.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("remote: endpoint unhealthy: %s", resp.Status)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// do issues one HTTP call with exponential backoff on transport errors and
// 5xx responses. 4xx responses are returned to the caller unretried.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, prefer string) (int, []byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var (
		status  int
		payload []byte
	)

	backoff := retry.WithMaxRetries(c.retries, retry.NewExponential(retryBaseDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return err
		}
		c.setHeaders(req)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if prefer != "" {
			req.Header.Set("Prefer", prefer)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		payload, err = io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(err)
		}

		status = resp.StatusCode
		if status >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("remote: %s %s: %s", method, path, resp.Status))
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}

	return status, payload, nil
}

// RESTTable binds one domain to the REST client.
type RESTTable[T Row] struct {
	client *Client
	domain string
}

// NewRESTTable builds the per-domain capability over a shared client.
func NewRESTTable[T Row](client *Client, domain string) *RESTTable[T] {
	return &RESTTable[T]{client: client, domain: domain}
}

// FetchAll lists every row in the domain's table. A 404 means the table has
// not been provisioned and reads as an empty domain.
func (t *RESTTable[T]) FetchAll(ctx context.Context) ([]T, error) {
	status, payload, err := t.client.do(ctx, http.MethodGet, "/"+t.domain, nil, nil, "")
	if err != nil {
		return nil, err
	}

	switch {
	case status == http.StatusNotFound:
		return []T{}, nil
	case status >= http.StatusBadRequest:
		return nil, fmt.Errorf("remote: fetch %s: status %d", t.domain, status)
	}

	var rows []T
	if err := json.Unmarshal(payload, &rows); err != nil {
		return nil, fmt.Errorf("remote: decode %s: %w", t.domain, err)
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

// Upsert inserts or replaces the row by key and returns the stored
// representation, including server-assigned timestamps.
func (t *RESTTable[T]) Upsert(ctx context.Context, row T) (T, error) {
	body, err := json.Marshal([]T{row})
	if err != nil {
		return row, fmt.Errorf("remote: encode %s row: %w", t.domain, err)
	}

	status, payload, err := t.client.do(ctx, http.MethodPost, "/"+t.domain, nil, body,
		"resolution=merge-duplicates,return=representation")
	if err != nil {
		return row, err
	}
	if status >= http.StatusBadRequest {
		return row, fmt.Errorf("remote: upsert %s/%s: status %d", t.domain, row.RowKey(), status)
	}

	var stored []T
	if err := json.Unmarshal(payload, &stored); err == nil && len(stored) > 0 {
		return stored[0], nil
	}
	return row, nil
}

// Delete removes the row with the given key. Absent keys and unprovisioned
// tables are not errors.
func (t *RESTTable[T]) Delete(ctx context.Context, key string) error {
	query := url.Values{"id": []string{"eq." + key}}
	status, _, err := t.client.do(ctx, http.MethodDelete, "/"+t.domain, query, nil, "")
	if err != nil {
		return err
	}
	if status >= http.StatusBadRequest && status != http.StatusNotFound {
		return fmt.Errorf("remote: delete %s/%s: status %d", t.domain, key, status)
	}
	return nil
}
