package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"commerce-events-go/internal/constants"
	apierrors "commerce-events-go/internal/errors"
	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

// Authorizer augments a pending request with valid authorization. It must be
// safe for concurrent use; it is invoked once per attempt so strategies that
// sign per request stay valid across retries.
type Authorizer interface {
	Authorize(ctx context.Context, req *http.Request) error
}

// Transport is the generic REST transport shared by all API clients.
// Contract: non-2xx responses surface as *apierrors.HTTPError (message
// "HTTP error! status: <code>"); 204 or empty bodies resolve to nil; non-JSON
// content types resolve to raw text. Transient failures are retried with
// exponential backoff; the pre-retry hook observes every retry.
type Transport struct {
	baseURL    string
	cli        *http.Client
	auth       Authorizer
	hooks      *Hooks
	limiter    *rate.Limiter
	maxRetries int
}

// TransportOption customizes Transport creation.
type TransportOption func(*Transport)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(cli *http.Client) TransportOption {
	return func(t *Transport) {
		if cli != nil {
			t.cli = cli
		}
	}
}

// WithAuthorizer sets the strategy used to authorize each attempt.
func WithAuthorizer(auth Authorizer) TransportOption {
	return func(t *Transport) { t.auth = auth }
}

// WithHooks replaces the instrumentation hook set.
func WithHooks(hooks *Hooks) TransportOption {
	return func(t *Transport) {
		if hooks != nil {
			t.hooks = hooks
		}
	}
}

// WithRateLimiter bounds the outbound request rate.
func WithRateLimiter(limiter *rate.Limiter) TransportOption {
	return func(t *Transport) { t.limiter = limiter }
}

// WithMaxRetries overrides the transport retry budget.
func WithMaxRetries(n int) TransportOption {
	return func(t *Transport) {
		if n >= 0 {
			t.maxRetries = n
		}
	}
}

// NewTransport creates a Transport rooted at baseURL.
func NewTransport(baseURL string, opts ...TransportOption) *Transport {
	tr := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   constants.DefaultDialTimeout,
			KeepAlive: constants.DefaultKeepAlive,
		}).DialContext,
		TLSHandshakeTimeout:   constants.DefaultTLSHandshakeTimeout,
		ResponseHeaderTimeout: constants.DefaultResponseHeaderTimeout,
		MaxIdleConns:          constants.BaseMaxIdleConns,
		MaxIdleConnsPerHost:   constants.BaseMaxIdleConnsPerHost,
		IdleConnTimeout:       constants.BaseIdleConnTimeout,
	}
	t := &Transport{
		baseURL:    strings.TrimRight(baseURL, "/"),
		cli:        &http.Client{Transport: tr, Timeout: constants.DefaultRequestTimeout},
		hooks:      NopHooks(),
		maxRetries: constants.TransportMaxRetries,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// resolve joins an endpoint with the base URL. Absolute URLs (hypermedia
// next links) pass through untouched.
func (t *Transport) resolve(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return t.baseURL + endpoint
}

// Do issues a request and returns the parsed response body: nil for empty
// responses, a JSON value for JSON content types, raw text otherwise.
func (t *Transport) Do(ctx context.Context, method, endpoint string, headers map[string]string, payload interface{}) (interface{}, error) {
	raw, contentType, err := t.DoRaw(ctx, method, endpoint, headers, payload)
	if err != nil {
		return nil, err
	}
	return decodeBody(raw, contentType)
}

// DoRaw issues a request and returns the raw response body and content type.
// A nil payload means no body; a non-nil payload is JSON-serialized.
func (t *Transport) DoRaw(ctx context.Context, method, endpoint string, headers map[string]string, payload interface{}) ([]byte, string, error) {
	url := t.resolve(endpoint)

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, "", fmt.Errorf("failed to serialize request payload: %w", err)
		}
	}

	t.hooks.beforeRequest(method, url)

	var (
		raw         []byte
		contentType string
	)

	attempt := 0
	operation := func() error {
		attempt++

		if t.limiter != nil {
			if err := t.limiter.Wait(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}

		req, err := t.newRequest(ctx, method, url, headers, body)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := t.cli.Do(req)
		if err != nil {
			return err // transport failure, retryable
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		t.hooks.afterResponse(resp.StatusCode, method, url)

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			httpErr := &apierrors.HTTPError{StatusCode: resp.StatusCode, Body: data}
			t.hooks.onError(httpErr, data)
			if retryableStatus(resp.StatusCode) {
				return httpErr
			}
			return backoff.Permanent(httpErr)
		}

		raw = data
		contentType = resp.Header.Get("Content-Type")
		if resp.StatusCode == http.StatusNoContent || resp.ContentLength == 0 {
			raw = nil
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(retryBackoff(), uint64(t.maxRetries)), ctx)
	notify := func(err error, _ time.Duration) {
		t.hooks.beforeRetry(attempt, err)
	}
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, "", err
	}
	return raw, contentType, nil
}

func (t *Transport) newRequest(ctx context.Context, method, url string, headers map[string]string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if t.auth != nil {
		if err := t.auth.Authorize(ctx, req); err != nil {
			return nil, err
		}
	}
	return req, nil
}

func retryBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = constants.TransportRetryInterval
	b.MaxInterval = constants.TransportMaxRetryDelay
	b.MaxElapsedTime = 0
	return b
}

// retryableStatus reports whether a response status is worth retrying at the
// transport level.
func retryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func decodeBody(raw []byte, contentType string) (interface{}, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if strings.Contains(contentType, "json") {
		var out interface{}
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("failed to parse response JSON: %w", err)
		}
		return out, nil
	}
	return string(raw), nil
}
