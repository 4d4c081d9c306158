// Package client wraps HTTP calls to the remote APIs with authentication,
// instrumentation and a single normalized result contract. Callers never see
// a raw transport error from Client.Do.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	apierrors "commerce-events-go/internal/errors"
	"commerce-events-go/internal/monitoring"
	"commerce-events-go/internal/monitoring/tracing"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Result is the single discriminated outcome of a resilient call. Exactly
// one shape is ever produced: success with the parsed body, or failure with
// a status code, message and optional error body.
type Result struct {
	Success    bool        `json:"success"`
	Message    interface{} `json:"message"`
	StatusCode int         `json:"statusCode,omitempty"`
	Body       interface{} `json:"body,omitempty"`
}

// Client issues authenticated calls against one API base URL.
type Client struct {
	transport *Transport
	api       string
}

// New builds a resilient client around baseURL. The api label names the
// remote ("commerce", "events", "ims") for logs, metrics and traces.
func New(api, baseURL string, auth Authorizer, opts ...TransportOption) *Client {
	all := append([]TransportOption{
		WithAuthorizer(auth),
		WithHooks(DefaultHooks(api)),
	}, opts...)
	return &Client{
		transport: NewTransport(baseURL, all...),
		api:       api,
	}
}

// Transport exposes the underlying transport for callers that need raw
// bodies (the hypermedia pagination fetcher).
func (c *Client) Transport() *Transport { return c.transport }

// Do performs the call and normalizes every outcome. It never returns an
// error: transport failures, HTTP errors and unexpected failures all become
// a failed Result.
func (c *Client) Do(ctx context.Context, endpoint, method string, headers map[string]string, payload interface{}) Result {
	ctx, span := tracing.StartSpan(ctx, "client", c.api+".Do",
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.url", c.transport.resolve(endpoint)),
			attribute.String("api.name", c.api),
		))
	defer span.End()

	start := time.Now()
	body, err := c.transport.Do(ctx, method, endpoint, headers, payload)
	elapsed := time.Since(start).Seconds()
	if err == nil {
		monitoring.OutboundRequestDuration.WithLabelValues(c.api, method, "2xx").Observe(elapsed)
		span.SetStatus(codes.Ok, "")
		return Result{Success: true, Message: body}
	}

	res := c.normalize(err)
	monitoring.OutboundRequestDuration.
		WithLabelValues(c.api, method, monitoring.StatusClass(res.StatusCode)).Observe(elapsed)

	span.SetAttributes(attribute.Int("http.status_code", res.StatusCode))
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return res
}

func (c *Client) normalize(err error) Result {
	var httpErr *apierrors.HTTPError
	if errors.As(err, &httpErr) {
		res := Result{
			Success:    false,
			StatusCode: httpErr.StatusCode,
			Message:    httpErr.Error(),
		}
		if len(httpErr.Body) > 0 {
			if parsed, perr := decodeBody(httpErr.Body, "application/json"); perr == nil {
				res.Body = parsed
			} else {
				res.Body = string(httpErr.Body)
			}
		}
		return res
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		log.WithError(err).WithField("api", c.api).Error("transport failure")
		return Result{
			Success:    false,
			StatusCode: http.StatusInternalServerError,
			Message:    fmt.Sprintf("Unexpected error, check logs. Original error \"%s\"", err.Error()),
		}
	}

	return Result{
		Success:    false,
		StatusCode: http.StatusInternalServerError,
		Message:    err.Error(),
	}
}
