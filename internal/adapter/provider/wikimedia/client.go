// Package wikimedia provides the HTTP client shared by the Wikidata, Wikipedia
// and Meta-Wiki adapters: user agent, outbound pacing, optional retries and
// request metrics.
package wikimedia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// ErrNotFound is returned when the remote service answers 404.
var ErrNotFound = errors.New("wikimedia: not found")

const (
	defaultUserAgent  = "WikiNaturalist/1.0 (https://meta.wikimedia.org/wiki/User:WikiNaturalist)"
	defaultRetryDelay = 500 * time.Millisecond
	maxBodyBytes      = 8 << 20
)

// StatusError reports a non-success HTTP status other than 404.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("wikimedia: unexpected status %d", e.StatusCode)
}

// RequestObserver receives one observation per logical request.
type RequestObserver interface {
	ObserveProviderRequest(provider, outcome string, d time.Duration)
}

// Options configures a Client. Zero values select defaults: no timeout
// override, no retries, unlimited rate.
type Options struct {
	UserAgent         string
	Timeout           time.Duration
	MaxRetries        int
	RetryDelay        time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client performs GET requests against Wikimedia APIs.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	maxRetries int
	retryDelay time.Duration
	observer   RequestObserver
	log        *slog.Logger
}

// NewClient creates a Client. observer may be nil.
func NewClient(opts Options, observer RequestObserver, logger *slog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	delay := opts.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}

	limit := rate.Inf
	burst := opts.Burst
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
		if burst <= 0 {
			burst = 1
		}
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
		userAgent:  ua,
		maxRetries: max(opts.MaxRetries, 0),
		retryDelay: delay,
		observer:   observer,
		log:        logger.With("adapter", "wikimedia"),
	}
}

// Get fetches rawURL and returns the response body. provider labels the
// request for logs and metrics. A 404 yields ErrNotFound.
func (c *Client) Get(ctx context.Context, provider, rawURL string) ([]byte, error) {
	start := time.Now()
	body, err := c.get(ctx, provider, rawURL)

	if c.observer != nil {
		outcome := "ok"
		switch {
		case errors.Is(err, ErrNotFound):
			outcome = "not_found"
		case err != nil:
			outcome = "error"
		}
		c.observer.ObserveProviderRequest(provider, outcome, time.Since(start))
	}
	return body, err
}

// GetJSON fetches rawURL and decodes the JSON body into dst.
func (c *Client) GetJSON(ctx context.Context, provider, rawURL string, dst any) error {
	body, err := c.Get(ctx, provider, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("wikimedia: decode json: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, provider, rawURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wikimedia: rate limit wait: %w", err)
	}

	c.log.DebugContext(ctx, "wikimedia request", slog.String("provider", provider), slog.String("url", rawURL))

	resp, err := c.doWithRetry(ctx, provider, rawURL)
	if err != nil {
		return nil, fmt.Errorf("wikimedia: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("wikimedia: read body: %w", err)
	}
	return body, nil
}

// doWithRetry executes the request, retrying up to maxRetries times on 5xx
// or network errors.
func (c *Client) doWithRetry(ctx context.Context, provider, rawURL string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json, text/html;q=0.9")

		resp, err := c.httpClient.Do(req)

		shouldRetry := err != nil || resp.StatusCode >= 500
		if !shouldRetry || attempt >= c.maxRetries || ctx.Err() != nil {
			return resp, err
		}

		reason := "network error"
		if err == nil {
			reason = fmt.Sprintf("status %d", resp.StatusCode)
			resp.Body.Close()
		}
		c.log.WarnContext(ctx, "wikimedia retry",
			slog.String("provider", provider),
			slog.String("reason", reason),
			slog.Int("attempt", attempt+1),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}
}
