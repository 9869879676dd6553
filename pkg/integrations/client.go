package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/fundtree/fundtree/pkg/httputil"
)

// Client provides shared HTTP functionality for the API clients.
// It handles default request headers, status-code classification, and
// client-side rate limiting. Methods are safe for concurrent use.
type Client struct {
	http    *http.Client
	headers map[string]string
	limiter *rate.Limiter
}

// NewClient creates a Client with the given default headers and optional
// rate limiter. Headers are applied to all requests made through this
// client. Pass nil for headers or limiter if not needed.
func NewClient(headers map[string]string, limiter *rate.Limiter) *Client {
	return &Client{
		http:    NewHTTPClient(),
		headers: headers,
		limiter: limiter,
	}
}

// Fetch executes fn with automatic retries for transient failures.
// Permanent failures (404, 401, rate-limit exhaustion) are returned
// immediately. fn must be safe to call more than once.
func (c *Client) Fetch(ctx context.Context, fn func() error) error {
	return httputil.RetryWithBackoff(ctx, fn)
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	body, err := c.doRequest(ctx, url, nil)
	if err != nil {
		return err
	}
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

// GetText performs an HTTP GET with additional headers merged with defaults
// and returns the response body as a string. Request-specific headers
// override client defaults for the same key. Useful for raw-content
// endpoints that return file bodies rather than JSON.
func (c *Client) GetText(ctx context.Context, url string, headers map[string]string) (string, error) {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return "", err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	return string(data), err
}

func (c *Client) doRequest(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusTooManyRequests:
		return ErrRateLimited
	case code == http.StatusForbidden && rateLimitExhausted(resp):
		return ErrRateLimited
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// rateLimitExhausted reports whether a 403 response is a rate-limit
// rejection rather than a permissions failure. GitHub signals this with a
// zeroed X-RateLimit-Remaining header.
func rateLimitExhausted(resp *http.Response) bool {
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if remaining == "" {
		return false
	}
	n, err := strconv.Atoi(remaining)
	return err == nil && n <= 0
}
