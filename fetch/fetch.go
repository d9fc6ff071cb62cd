// CLAUDE:SUMMARY HTTP page fetcher with conditional GET, content-hash dedup, and bounded retries.
// Package fetch retrieves spec pages over HTTP.
//
// Supports ETag, If-Modified-Since, and content-hash-based change
// detection, with bounded retries on transient failures.
package fetch

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrBlockedURL reports a URL rejected before any request was made.
var ErrBlockedURL = errors.New("fetch: blocked url")

// Result contains the outcome of a fetch.
type Result struct {
	Body       []byte
	StatusCode int
	Hash       string // SHA-256 of body
	ETag       string // from response header
	LastMod    string // from response header
	Changed    bool   // true if content is new/different
}

// Config configures the fetcher.
type Config struct {
	Timeout  time.Duration // HTTP timeout. Default: 30s.
	MaxBytes int64         // Max response body size. Default: 10MB.
	// Retries is the number of extra attempts after a transient failure.
	// Default: 2.
	Retries int
	// Backoff between retry attempts. Default: 2s, doubled per attempt.
	Backoff time.Duration
	// UserAgent sent with requests.
	UserAgent string
	// URLValidator validates URLs before fetch and on redirects.
	// Default: ValidateURL.
	URLValidator func(string) error
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 10 * 1024 * 1024 // 10MB
	}
	if c.Retries < 0 {
		c.Retries = 0
	} else if c.Retries == 0 {
		c.Retries = 2
	}
	if c.Backoff <= 0 {
		c.Backoff = 2 * time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = "specsift/1.0"
	}
	if c.URLValidator == nil {
		c.URLValidator = ValidateURL
	}
}

// ValidateURL accepts absolute http/https URLs with a host.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBlockedURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q", ErrBlockedURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrBlockedURL)
	}
	return nil
}

// Fetcher performs HTTP requests with conditional GET.
type Fetcher struct {
	client *http.Client
	config Config
}

// New creates a Fetcher that re-validates URLs on redirects.
func New(cfg Config) *Fetcher {
	cfg.defaults()
	validate := cfg.URLValidator
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects (%d)", len(via))
				}
				if err := validate(req.URL.String()); err != nil {
					return fmt.Errorf("redirect blocked: %w", err)
				}
				return nil
			},
		},
		config: cfg,
	}
}

// Fetch retrieves a URL. If etag or lastMod are provided, sends conditional
// headers; returns Changed=false on 304 Not Modified. If prevHash is
// provided and the body hash matches, also returns Changed=false.
// Transient failures (network errors, 5xx) are retried with backoff.
func (f *Fetcher) Fetch(ctx context.Context, url, etag, lastMod, prevHash string) (*Result, error) {
	if err := f.config.URLValidator(url); err != nil {
		return nil, err
	}

	var lastErr error
	backoff := f.config.Backoff
	for attempt := 0; attempt <= f.config.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		res, retryable, err := f.fetchOnce(ctx, url, etag, lastMod, prevHash)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if !retryable {
			return res, err
		}
	}
	return nil, lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, url, etag, lastMod, prevHash string) (*Result, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if lastMod != "" {
		req.Header.Set("If-Modified-Since", lastMod)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return &Result{
			StatusCode: 304,
			Changed:    false,
			ETag:       resp.Header.Get("ETag"),
			LastMod:    resp.Header.Get("Last-Modified"),
		}, false, nil
	}

	if resp.StatusCode >= 500 {
		return &Result{StatusCode: resp.StatusCode}, true, fmt.Errorf("http %d", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return &Result{StatusCode: resp.StatusCode}, false, fmt.Errorf("http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBytes))
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}

	h := sha256.Sum256(body)
	hash := fmt.Sprintf("%x", h)

	changed := prevHash == "" || hash != prevHash
	return &Result{
		Body:       body,
		StatusCode: resp.StatusCode,
		Hash:       hash,
		ETag:       resp.Header.Get("ETag"),
		LastMod:    resp.Header.Get("Last-Modified"),
		Changed:    changed,
	}, false, nil
}
