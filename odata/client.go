// Package odata executes compiled LegCo queries over HTTP and normalizes
// the replies into the uniform result envelope.
package odata

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/letmevibethatforyou/legcosearch"
)

const (
	defaultTimeout       = 30 * time.Second
	defaultMaxAttempts   = 3
	defaultRetryInterval = 500 * time.Millisecond
	defaultUserAgent     = "legcosearch/1.0"

	maxBodyExcerpt = 200
)

// Client fetches raw responses from the LegCo OData endpoints. It owns the
// only shared mutable resource in the system, the pooled HTTP client, and
// is safe for concurrent use.
type Client struct {
	httpClient    *http.Client
	userAgent     string
	maxAttempts   int
	retryInterval time.Duration
	baseURLs      map[legcosearch.EndpointName]string
	tracer        trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default pooled HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// WithTimeout sets the per-request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithUserAgent sets the identifying User-Agent header sent upstream.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxAttempts bounds the total number of attempts per GET, including
// the first. Only network-level failures are retried.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithRetryInterval sets the initial backoff interval between attempts.
func WithRetryInterval(d time.Duration) Option {
	return func(c *Client) {
		c.retryInterval = d
	}
}

// WithBaseURL overrides the base URL of one endpoint. Intended for tests
// pointing at a local stub server.
func WithBaseURL(name legcosearch.EndpointName, url string) Option {
	return func(c *Client) {
		c.baseURLs[name] = url
	}
}

// NewClient creates a Client with a bounded connection pool and default
// timeouts. Options are applied in order, so WithTimeout after
// WithHTTPClient adjusts the replacement client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
			},
		},
		userAgent:     defaultUserAgent,
		maxAttempts:   defaultMaxAttempts,
		retryInterval: defaultRetryInterval,
		baseURLs:      map[legcosearch.EndpointName]string{},
		tracer:        otel.Tracer("legcosearch-odata"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// CloseIdleConnections releases pooled upstream connections. Call it at
// process shutdown.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// baseURL resolves the effective base URL for an endpoint, honoring test
// overrides.
func (c *Client) baseURL(ep legcosearch.Endpoint) string {
	if u, ok := c.baseURLs[ep.Name]; ok {
		return u
	}
	return ep.BaseURL
}

// rawResponse is an upstream reply before normalization.
type rawResponse struct {
	status      int
	body        []byte
	contentType string
}

// fetch executes an idempotent GET with bounded retries. Network-level
// failures are retried up to the attempt bound; a non-2xx reply is
// permanent and surfaces as an HTTP status error with a truncated body
// excerpt. Context cancellation stops the retry loop immediately.
func (c *Client) fetch(ctx context.Context, url string, format legcosearch.Format) (*rawResponse, error) {
	op := func() (*rawResponse, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", acceptFor(format))

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, backoff.Permanent(legcosearch.NewHTTPStatusError(
				resp.StatusCode, excerpt(string(body), maxBodyExcerpt)))
		}

		return &rawResponse{
			status:      resp.StatusCode,
			body:        body,
			contentType: resp.Header.Get("Content-Type"),
		}, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInterval
	raw, err := backoff.RetryWithData(op, backoff.WithContext(
		backoff.WithMaxRetries(bo, uint64(c.maxAttempts-1)), ctx))
	if err != nil {
		if errors.Is(err, legcosearch.ErrHTTPStatus) {
			return nil, err
		}
		return nil, legcosearch.NewNetworkError(excerpt(err.Error(), maxBodyExcerpt))
	}

	return raw, nil
}

// acceptFor returns the Accept header matching the requested format.
func acceptFor(format legcosearch.Format) string {
	if format == legcosearch.FormatXML {
		return "application/xml"
	}
	return "application/json"
}

// excerpt truncates s to at most n runes.
func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
