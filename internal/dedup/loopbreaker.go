package dedup

import (
	"context"
	"fmt"
	"time"

	"commerce-events-go/internal/constants"
	"commerce-events-go/internal/store"
	log "github.com/sirupsen/logrus"
)

// KeyFunc and PayloadFunc defer evaluation until the loop breaker actually
// needs them, so callers can skip expensive fingerprint construction when
// the check short-circuits.
type (
	KeyFunc     func() string
	PayloadFunc func() interface{}
)

// Key wraps a literal key.
func Key(s string) KeyFunc { return func() string { return s } }

// Payload wraps a literal fingerprint input.
func Payload(v interface{}) PayloadFunc { return func() interface{} { return v } }

// LoopBreaker persists payload fingerprints keyed by the caller and reports
// whether an incoming event matches one this process already handled. Unlike
// the token cache, store failures here are fatal: a dead store must not
// silently disable loop protection.
type LoopBreaker struct {
	store  store.Store
	logger *log.Entry
}

// Option customizes a LoopBreaker.
type Option func(*LoopBreaker)

// WithLogger injects the logger.
func WithLogger(logger *log.Entry) Option {
	return func(lb *LoopBreaker) {
		if logger != nil {
			lb.logger = logger
		}
	}
}

// NewLoopBreaker builds a LoopBreaker over a TTL store.
func NewLoopBreaker(st store.Store, opts ...Option) *LoopBreaker {
	lb := &LoopBreaker{
		store:  st,
		logger: log.NewEntry(log.StandardLogger()),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(lb)
		}
	}
	return lb
}

// Check reports whether the current event repeats one previously stored
// under key. Event types outside eventTypes are never protected: the check
// returns false without consulting the store.
func (lb *LoopBreaker) Check(ctx context.Context, key KeyFunc, eventTypes []string, currentEventType string, payload PayloadFunc) (bool, error) {
	if !contains(eventTypes, currentEventType) {
		return false, nil
	}

	stored, ok, err := lb.store.Get(ctx, key())
	if err != nil {
		return false, fmt.Errorf("loop breaker store read: %w", err)
	}
	if !ok {
		return false, nil
	}

	current, err := Fingerprint(payload())
	if err != nil {
		return false, err
	}

	match := stored == current
	if match {
		lb.logger.WithFields(log.Fields{
			"event_type": currentEventType,
			"key":        key(),
		}).Debug("event fingerprint matches a previously emitted event")
	}
	return match, nil
}

// Store computes and persists the payload fingerprint under key,
// overwriting any previous value. A non-positive ttl selects the default.
func (lb *LoopBreaker) Store(ctx context.Context, key KeyFunc, payload PayloadFunc, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = constants.LoopBreakerDefaultTTL
	}

	hash, err := Fingerprint(payload())
	if err != nil {
		return err
	}
	if err := lb.store.Put(ctx, key(), hash, ttl); err != nil {
		return fmt.Errorf("loop breaker store write: %w", err)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
