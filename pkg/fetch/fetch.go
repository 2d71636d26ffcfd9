// Package fetch retrieves remote documents over HTTP. It does not retry;
// every failure is reported to the caller as a transport fault.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxBodyBytes = 10 * 1024 * 1024
	DefaultUserAgent    = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
)

// ErrTransport is wrapped by every error Fetch returns.
var ErrTransport = errors.New("transport fault")

// StatusError is returned for a response outside the 2xx range.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Unwrap() error { return ErrTransport }

// Options configures a Client. Zero fields take the package defaults.
type Options struct {
	Timeout        time.Duration
	MaxBodyBytes   int64
	UserAgent      string
	AcceptLanguage string
}

// Client fetches documents with browser-like request headers.
type Client struct {
	http *http.Client
	opts Options
	log  *zap.Logger
}

// New returns a Client. A nil logger disables logging.
func New(opts Options, log *zap.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.AcceptLanguage == "" {
		opts.AcceptLanguage = "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		http: &http.Client{Timeout: opts.Timeout},
		opts: opts,
		log:  log,
	}
}

// Fetch GETs url and returns the response body.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w: %v", ErrTransport, err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", c.opts.AcceptLanguage)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	c.log.Debug("fetched",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch: %w", &StatusError{URL: url, StatusCode: resp.StatusCode})
	}

	limit := c.opts.MaxBodyBytes
	if resp.ContentLength > limit {
		return nil, fmt.Errorf("fetch: %w: content length %d exceeds limit of %d bytes", ErrTransport, resp.ContentLength, limit)
	}
	// Read one byte past the limit to tell a full body from a truncated one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("fetch: %w: read body: %v", ErrTransport, err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("fetch: %w: body exceeds limit of %d bytes", ErrTransport, limit)
	}
	return body, nil
}
