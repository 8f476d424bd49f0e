// Package client provides a Go SDK for the vehicle search API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client is the SDK client for the search API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Config holds client configuration.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// HTTPClient overrides the default traced client.
	HTTPClient *http.Client
}

// New creates a client. The base URL defaults to http://localhost:8000.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000"
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    hc,
	}, nil
}

// Value is a vehicle attribute the feed may send as a number or a string.
type Value json.RawMessage

// UnmarshalJSON keeps the raw token.
func (v *Value) UnmarshalJSON(data []byte) error {
	*v = append((*v)[:0], data...)
	return nil
}

// MarshalJSON writes the raw token back.
func (v Value) MarshalJSON() ([]byte, error) {
	if len(v) == 0 {
		return []byte("null"), nil
	}
	return v, nil
}

// String returns the value without JSON quoting.
func (v Value) String() string {
	if len(v) == 0 || string(v) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	return string(v)
}

// Float parses the value as a number.
func (v Value) Float() (float64, bool) {
	f, err := strconv.ParseFloat(v.String(), 64)
	return f, err == nil
}

// Vehicle is one inventory record as returned by the API.
type Vehicle struct {
	ID              string   `json:"id"`
	Title           string   `json:"titulo"`
	Brand           string   `json:"marca"`
	Model           string   `json:"modelo"`
	Version         string   `json:"versao"`
	Category        string   `json:"categoria"`
	Color           string   `json:"cor"`
	Fuel            string   `json:"combustivel"`
	Transmission    string   `json:"cambio"`
	Engine          string   `json:"motor"`
	Doors           Value    `json:"portas"`
	Year            Value    `json:"ano"`
	ManufactureYear Value    `json:"ano_fabricacao"`
	Mileage         Value    `json:"km"`
	Price           Value    `json:"preco"`
	Options         []string `json:"opcionais"`
	Photos          []string `json:"fotos"`
}

// Alternatives holds suggestions returned when nothing matched.
type Alternatives struct {
	Criteria map[string]any `json:"criterios"`
	Basis    string         `json:"base"`
	Message  string         `json:"mensagem"`
	Total    int            `json:"total_encontrado"`
	Results  []Vehicle      `json:"resultados"`
}

// SearchResponse is the result of a search.
type SearchResponse struct {
	Query        string         `json:"query_original"`
	Criteria     map[string]any `json:"parametros_extraidos"`
	Total        int            `json:"total_encontrado"`
	Results      []Vehicle      `json:"resultados"`
	Alternatives *Alternatives  `json:"alternativas,omitempty"`
}

// InterpretResponse holds the criteria extracted from a query.
type InterpretResponse struct {
	Query    string         `json:"query_original"`
	Criteria map[string]any `json:"parametros_extraidos"`
}

// InventoryStatus describes the snapshot the server is serving.
type InventoryStatus struct {
	SnapshotID  string     `json:"snapshot_id,omitempty"`
	Source      string     `json:"source,omitempty"`
	Vehicles    int        `json:"vehicles"`
	LoadedAt    *time.Time `json:"loaded_at,omitempty"`
	LastRefresh *time.Time `json:"last_refresh,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
}

// QueryStat is one row of the top queries report.
type QueryStat struct {
	Query      string `json:"query"`
	Count      int    `json:"count"`
	ZeroResult int    `json:"zero_result"`
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s (%s)", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Unavailable reports whether the server had no inventory loaded.
func (e *APIError) Unavailable() bool {
	return e.StatusCode == http.StatusServiceUnavailable
}

type queryRequest struct {
	Query string `json:"query"`
}

// Search runs a free-text search.
func (c *Client) Search(ctx context.Context, query string) (*SearchResponse, error) {
	var resp SearchResponse
	if err := c.do(ctx, http.MethodPost, "/api/search", queryRequest{Query: query}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Interpret returns the criteria the server extracts from query.
func (c *Client) Interpret(ctx context.Context, query string) (*InterpretResponse, error) {
	var resp InterpretResponse
	if err := c.do(ctx, http.MethodPost, "/api/interpret", queryRequest{Query: query}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// InventoryStatus returns the current snapshot metadata.
func (c *Client) InventoryStatus(ctx context.Context) (*InventoryStatus, error) {
	var resp InventoryStatus
	if err := c.do(ctx, http.MethodGet, "/api/inventory/", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RefreshInventory asks the server to reload its inventory now.
func (c *Client) RefreshInventory(ctx context.Context) (*InventoryStatus, error) {
	var resp InventoryStatus
	if err := c.do(ctx, http.MethodPost, "/api/inventory/refresh", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TopQueries returns the most frequent queries of the last hours.
func (c *Client) TopQueries(ctx context.Context, hours, limit int) ([]QueryStat, error) {
	q := url.Values{}
	if hours > 0 {
		q.Set("hours", strconv.Itoa(hours))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/search/stats"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp []QueryStat
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Health returns nil when the server answers its liveness probe.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// Ready returns nil when the server has an inventory loaded.
func (c *Client) Ready(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/ready", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
			if apiErr.Message == "" {
				apiErr.Message = http.StatusText(resp.StatusCode)
			}
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
