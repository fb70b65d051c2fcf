package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/ppiankov/querent/internal/model"
)

const retryBaseDelay = 2 * time.Second

// sleepFunc is the delay function used between retries (injectable for tests).
var sleepFunc = func(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Client is the shared HTTP transport used by every provider: pooled
// connections, fixed timeouts, and a provider-agnostic retry policy.
//
// Retries happen only on 5xx, 429, or transport-level errors, up to
// MaxRetries times. The delay honors Retry-After when present, else
// doubles from 2s per attempt. 4xx responses other than 429 are never
// retried.
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxRetries int
}

// New creates a resilient client from configuration.
func New(cfg model.HTTPConfig) *Client {
	transport := &http.Transport{
		Proxy: newProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy),
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConns,
		IdleConnTimeout:     5 * time.Minute,
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: transport,
		},
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
	}
}

// Do executes a request under the retry policy. The response body is
// the caller's to close. Requests with a non-replayable body are not
// retried.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	replayable := req.Body == nil || req.GetBody != nil

	var resp *http.Response
	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 && req.GetBody != nil {
			body, gerr := req.GetBody()
			if gerr != nil {
				return nil, fmt.Errorf("replay request body: %w", gerr)
			}
			req.Body = body
		}

		resp, err = c.httpClient.Do(req)
		if err != nil {
			if !replayable || attempt == c.maxRetries {
				return nil, fmt.Errorf("request failed after %d attempts: %w", attempt+1, err)
			}
			if serr := sleepFunc(req.Context(), backoffDelay(attempt)); serr != nil {
				return nil, serr
			}
			continue
		}

		if !retryableStatus(resp.StatusCode) || !replayable || attempt == c.maxRetries {
			return resp, nil
		}

		delay := retryDelay(resp, attempt)
		drainAndClose(resp)
		if serr := sleepFunc(req.Context(), delay); serr != nil {
			return nil, serr
		}
	}
	return resp, err
}

// GetJSON issues a GET and decodes a 2xx JSON body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// DoJSON executes a prepared request and decodes a 2xx JSON body into
// out. Use this instead of GetJSON when the request needs headers.
func (c *Client) DoJSON(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// StatusError is a terminal non-2xx response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return "unexpected status: " + e.Status
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || (code >= 500 && code < 600)
}

// retryDelay computes the wait before the next attempt: Retry-After
// seconds when the server supplies it, else exponential backoff.
func retryDelay(resp *http.Response, attempt int) time.Duration {
	if after := resp.Header.Get("Retry-After"); after != "" {
		if secs, err := strconv.ParseInt(after, 10, 64); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return backoffDelay(attempt)
}

func backoffDelay(attempt int) time.Duration {
	return retryBaseDelay * (1 << attempt) // 2s, 4s, 8s, ...
}

func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
