// Package images fetches performer and scene artwork and encodes it for
// library mutations, which accept images as base64 data URIs.
package images

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pierre-delecto/stash-theporndb-scraper/internal/logging"
)

// ErrNotImage is returned when a fetch succeeds but the payload is not an
// image.
var ErrNotImage = errors.New("response is not an image")

const maxImageBytes = 20 << 20

// Fetcher downloads images over HTTP.
type Fetcher struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.httpClient = client
		}
	}
}

// WithLogger attaches a logger for fetch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithBabepediaBaseURL overrides the Babepedia host. An empty base URL
// removes Babepedia from the performer image chain entirely.
func WithBabepediaBaseURL(baseURL string) Option {
	return func(f *Fetcher) { f.baseURL = strings.TrimRight(baseURL, "/") }
}

// NewFetcher creates an image fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	fetcher := &Fetcher{
		baseURL:    "https://www.babepedia.com",
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(fetcher)
	}
	return fetcher
}

// BabepediaURL builds the conventional Babepedia picture URL for a performer
// name. Spaces become underscores.
func (f *Fetcher) BabepediaURL(name string) string {
	slug := strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	return f.baseURL + "/pics/" + url.PathEscape(slug) + ".jpg"
}

// PerformerImage tries Babepedia for the performer name and each alias in
// order, then falls back to fallbackURL. Returns the encoded image from the
// first URL that serves one, or empty string when none does.
func (f *Fetcher) PerformerImage(ctx context.Context, name string, aliases []string, fallbackURL string) (string, error) {
	candidates := make([]string, 0, len(aliases)+2)
	if f.baseURL != "" {
		candidates = append(candidates, f.BabepediaURL(name))
		for _, alias := range aliases {
			if strings.TrimSpace(alias) != "" {
				candidates = append(candidates, f.BabepediaURL(alias))
			}
		}
	}
	if fallbackURL != "" {
		candidates = append(candidates, fallbackURL)
	}

	for _, candidate := range candidates {
		encoded, err := f.FetchBase64(ctx, candidate)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			f.logger.Debug("image candidate rejected",
				logging.String("url", candidate),
				logging.Error(err),
			)
			continue
		}
		return encoded, nil
	}
	return "", nil
}

// FetchBase64 downloads the image at rawURL and returns it as a data URI.
func (f *Fetcher) FetchBase64(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := f.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return "", fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}
	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: content type %q", ErrNotImage, contentType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", fmt.Errorf("read image body: %w", err)
	}
	if len(data) == 0 {
		return "", ErrNotImage
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
