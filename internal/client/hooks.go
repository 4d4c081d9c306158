package client

import (
	"errors"

	apierrors "commerce-events-go/internal/errors"
	"commerce-events-go/internal/logging"
	"commerce-events-go/internal/monitoring"
	log "github.com/sirupsen/logrus"
)

// Hooks are the four instrumentation points every call passes through. They
// are the only operational visibility into a stateless action's HTTP calls,
// so any transport implementation must fire all of them.
type Hooks struct {
	// BeforeRequest fires once before the first attempt.
	BeforeRequest func(method, url string)
	// BeforeRetry fires before each retry with the retry count and the
	// error that triggered it.
	BeforeRetry func(attempt int, err error)
	// OnError fires when a response resolves to an error; body is the raw
	// response body already attached to the error.
	OnError func(err error, body []byte)
	// AfterResponse fires after any response is received.
	AfterResponse func(status int, method, url string)
}

func (h *Hooks) beforeRequest(method, url string) {
	if h != nil && h.BeforeRequest != nil {
		h.BeforeRequest(method, url)
	}
}

func (h *Hooks) beforeRetry(attempt int, err error) {
	if h != nil && h.BeforeRetry != nil {
		h.BeforeRetry(attempt, err)
	}
}

func (h *Hooks) onError(err error, body []byte) {
	if h != nil && h.OnError != nil {
		h.OnError(err, body)
	}
}

func (h *Hooks) afterResponse(status int, method, url string) {
	if h != nil && h.AfterResponse != nil {
		h.AfterResponse(status, method, url)
	}
}

// NopHooks returns hooks that do nothing.
func NopHooks() *Hooks { return &Hooks{} }

// DefaultHooks logs every hook point through logrus and feeds the outbound
// prometheus metrics. The api label keeps metric cardinality low
// ("commerce", "events", "ims").
func DefaultHooks(api string) *Hooks {
	return &Hooks{
		BeforeRequest: func(method, url string) {
			logging.WithCall(method, url, log.Fields{"api": api}).Debug("sending request")
		},
		BeforeRetry: func(attempt int, err error) {
			monitoring.OutboundRetriesTotal.WithLabelValues(api).Inc()
			log.WithFields(log.Fields{"api": api, "retry": attempt}).
				WithError(err).Warn("retrying request")
		},
		OnError: func(err error, body []byte) {
			status := 0
			var httpErr *apierrors.HTTPError
			if errors.As(err, &httpErr) {
				status = httpErr.StatusCode
			}
			kind := logging.ErrorKind(status, true)
			monitoring.OutboundErrorsTotal.WithLabelValues(api, kind).Inc()
			log.WithFields(log.Fields{"api": api, "error_kind": kind, "body_bytes": len(body)}).
				WithError(err).Debug("request returned error response")
		},
		AfterResponse: func(status int, method, url string) {
			monitoring.OutboundRequestsTotal.
				WithLabelValues(api, method, monitoring.StatusClass(status)).Inc()
			logging.WithCall(method, url, log.Fields{"api": api, "status": status}).
				Debug("received response")
		},
	}
}
