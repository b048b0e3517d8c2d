package forward

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrRetriesExhausted is returned when every attempt against the owner ended
// in a transient failure (transport error or 5xx) and the attempt budget ran
// out. Check with errors.Is; the last underlying cause is wrapped alongside.
var ErrRetriesExhausted = errors.New("retries exhausted")

// Tunable defaults. One consistent set, chosen from the historically used
// ranges: short per-attempt timeouts keep a dead peer from stalling the
// calling request, and the fixed delay gives a restarting peer a beat to
// come back. No backoff, no jitter.
const (
	defaultTimeout     = 250 * time.Millisecond
	defaultMaxAttempts = 3
	defaultRetryDelay  = 100 * time.Millisecond
)

const contentTypeJSON = "application/json; charset=utf-8"

// Client issues the inter-node get/set/delete calls used for forwarding, with
// a short per-attempt timeout and a bounded retry loop. The wire protocol is
// the node's own external HTTP interface; a forwarded call looks exactly like
// a client request addressed to the owner.
//
// Classification of outcomes:
//   - transport error (timeout, connection refused, DNS) → transient, retried
//   - response status >= 500 → transient, retried
//   - any other status (2xx, 4xx) → definitive, returned immediately
//
// A Client is safe for concurrent use.
type Client struct {
	httpClient  *http.Client
	maxAttempts int
	retryDelay  time.Duration
}

// NewClient returns a Client with the default timeout and retry budget.
func NewClient() *Client {
	return NewClientWith(defaultTimeout, defaultMaxAttempts, defaultRetryDelay)
}

// NewClientWith returns a Client with an explicit per-attempt timeout,
// attempt budget, and inter-attempt delay. Used by tests and by callers that
// need a tighter or looser budget than the defaults.
func NewClientWith(timeout time.Duration, maxAttempts int, retryDelay time.Duration) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
	}
}

// Get fetches a key from the owning peer.
// Returns the owner's definitive status and body, or ErrRetriesExhausted.
func (c *Client) Get(ctx context.Context, owner, key string) (int, []byte, error) {
	return c.do(ctx, http.MethodGet, owner, "/"+key, nil)
}

// Set forwards a write to the owning peer. body is the raw JSON object the
// client sent ({key: value}); the owner re-validates it like any other
// request.
func (c *Client) Set(ctx context.Context, owner string, body []byte) (int, []byte, error) {
	return c.do(ctx, http.MethodPost, owner, "/", body)
}

// Delete forwards a delete to the owning peer.
func (c *Client) Delete(ctx context.Context, owner, key string) (int, []byte, error) {
	return c.do(ctx, http.MethodDelete, owner, "/"+key, nil)
}

// do runs the bounded retry loop around attempt. The inter-attempt delay is
// skipped before the first attempt and cut short by context cancellation.
func (c *Client) do(ctx context.Context, method, owner, path string, body []byte) (int, []byte, error) {
	url := "http://" + owner + path

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return 0, nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		status, respBody, err := c.attempt(ctx, method, url, body)
		if err != nil {
			// Transport-level failure: transient
			lastErr = err
			continue
		}
		if status >= http.StatusInternalServerError {
			// Owner answered but couldn't serve: transient
			lastErr = fmt.Errorf("%s %s: status %d", method, url, status)
			continue
		}

		// Definitive answer from the owner, including 4xx
		return status, respBody, nil
	}

	return 0, nil, fmt.Errorf("%w after %d attempts: %v", ErrRetriesExhausted, c.maxAttempts, lastErr)
}

// attempt issues a single HTTP request and reads the full response body.
func (c *Client) attempt(ctx context.Context, method, url string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, respBody, nil
}
