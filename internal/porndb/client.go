package porndb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pierre-delecto/stash-theporndb-scraper/internal/logging"
)

// ErrUnavailable marks responses that were not valid JSON payloads. A small
// number of these in a row indicates an outage rather than a per-record
// problem; callers abort the run once ConsecutiveFailures crosses their
// threshold.
var ErrUnavailable = errors.New("theporndb unavailable")

// Client provides access to the ThePornDB metadata API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
	failures   int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithAPIKey authenticates requests with a bearer token.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = strings.TrimSpace(key) }
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a ThePornDB client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("porndb base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ConsecutiveFailures reports how many requests in a row returned malformed
// payloads. Any successful decode resets the counter.
func (c *Client) ConsecutiveFailures() int {
	return c.failures
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse porndb url: %w", err)
	}
	if query != nil {
		endpoint.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.failures++
		c.logger.Error("malformed porndb payload",
			logging.String("path", path),
			logging.Int("consecutive_failures", c.failures),
			logging.Error(err),
		)
		return fmt.Errorf("%w: decode %s: %v", ErrUnavailable, path, err)
	}
	c.failures = 0
	return nil
}

// SearchScenes queries the scenes endpoint. With parse set the server runs
// its filename-parsing matcher; otherwise plain free-text search.
func (c *Client) SearchScenes(ctx context.Context, query string, parse bool) ([]Scene, error) {
	params := url.Values{}
	if parse {
		params.Set("parse", query)
	} else {
		params.Set("q", query)
	}
	var payload struct {
		Data []Scene `json:"data"`
	}
	if err := c.get(ctx, "/api/scenes", params, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// FindPerformer searches for a performer by name and fetches the full record
// of the first hit. Returns nil when there is no hit.
func (c *Client) FindPerformer(ctx context.Context, name string) (*Performer, error) {
	params := url.Values{}
	params.Set("q", name)
	var search struct {
		Data []Performer `json:"data"`
	}
	if err := c.get(ctx, "/api/performers", params, &search); err != nil {
		return nil, err
	}
	if len(search.Data) == 0 || search.Data[0].ID == "" {
		return nil, nil
	}
	var detail struct {
		Data Performer `json:"data"`
	}
	if err := c.get(ctx, "/api/performers/"+url.PathEscape(search.Data[0].ID), nil, &detail); err != nil {
		return nil, err
	}
	return &detail.Data, nil
}

// PerformerImageURL returns the image URL for a performer when the search
// yields exactly one hit and the image is not the placeholder. Empty string
// means no usable image.
func (c *Client) PerformerImageURL(ctx context.Context, name string) (string, error) {
	params := url.Values{}
	params.Set("q", name)
	var search struct {
		Data []Performer `json:"data"`
	}
	if err := c.get(ctx, "/api/performers", params, &search); err != nil {
		return "", err
	}
	if len(search.Data) != 1 {
		return "", nil
	}
	image := search.Data[0].Image
	if image == "" || strings.Contains(image, "default.png") {
		return "", nil
	}
	return image, nil
}
