package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"commerce-events-go/internal/constants"
	"commerce-events-go/internal/monitoring"
	"commerce-events-go/internal/store"
	log "github.com/sirupsen/logrus"
)

// anonymousToken is the sentinel attached when token issuance fails. The
// remote API rejects it with 401, which surfaces the failure through the
// normal error path instead of an internal exception.
const anonymousToken = "null"

// TokenExchanger issues a credential in exchange for a username/password
// pair. The generic REST transport satisfies this via a thin adapter.
type TokenExchanger interface {
	Exchange(ctx context.Context, username, password string) (interface{}, error)
}

// SharedSecretStrategy authorizes requests with a bearer token obtained from
// an admin-token exchange endpoint and cached under a strategy-specific key.
// Cache and issuance failures are soft: the request proceeds with an invalid
// bearer and the remote's 401 does the reporting.
type SharedSecretStrategy struct {
	exchanger TokenExchanger
	username  string
	password  string

	cache    store.Store
	cacheKey string
	tokenTTL time.Duration

	logger *log.Entry
}

// SharedSecretOption customizes the strategy.
type SharedSecretOption func(*SharedSecretStrategy)

// WithTokenCache sets the TTL store backing the token cache. Without one the
// strategy exchanges credentials on every authorization.
func WithTokenCache(cache store.Store) SharedSecretOption {
	return func(s *SharedSecretStrategy) { s.cache = cache }
}

// WithTokenTTL overrides the cached token lifetime.
func WithTokenTTL(ttl time.Duration) SharedSecretOption {
	return func(s *SharedSecretStrategy) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// WithLogger injects the logger (no hidden global state).
func WithLogger(logger *log.Entry) SharedSecretOption {
	return func(s *SharedSecretStrategy) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSharedSecretStrategy builds the strategy around an exchange endpoint.
func NewSharedSecretStrategy(exchanger TokenExchanger, username, password string, opts ...SharedSecretOption) *SharedSecretStrategy {
	s := &SharedSecretStrategy{
		exchanger: exchanger,
		username:  username,
		password:  password,
		cacheKey:  fmt.Sprintf("auth:shared-secret:%s", username),
		tokenTTL:  constants.SharedSecretTokenTTL,
		logger:    log.NewEntry(log.StandardLogger()),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Authorize attaches "Authorization: Bearer <token>". It never returns an
// error for expected credential failures.
func (s *SharedSecretStrategy) Authorize(ctx context.Context, req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+s.token(ctx))
	return nil
}

func (s *SharedSecretStrategy) token(ctx context.Context) string {
	if s.cache != nil {
		val, ok, err := s.cache.Get(ctx, s.cacheKey)
		switch {
		case err != nil:
			// store unavailable is non-fatal here: fall back to "no cache"
			monitoring.TokenCacheHitsTotal.WithLabelValues("shared_secret", "error").Inc()
			s.logger.WithError(err).Warn("token cache unavailable, re-issuing credential")
		case ok:
			monitoring.TokenCacheHitsTotal.WithLabelValues("shared_secret", "hit").Inc()
			return val
		default:
			monitoring.TokenCacheHitsTotal.WithLabelValues("shared_secret", "miss").Inc()
		}
	}

	token, ok := s.issue(ctx)
	if !ok {
		return anonymousToken
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, s.cacheKey, token, s.tokenTTL); err != nil {
			s.logger.WithError(err).Warn("failed to cache issued token")
		}
	}
	return token
}

// issue performs the credential exchange. All failures are soft.
func (s *SharedSecretStrategy) issue(ctx context.Context) (string, bool) {
	body, err := s.exchanger.Exchange(ctx, s.username, s.password)
	if err != nil {
		monitoring.TokenExchangesTotal.WithLabelValues("shared_secret", "error").Inc()
		s.logger.WithError(err).Error("credential exchange failed, proceeding unauthenticated")
		return "", false
	}

	token, ok := coerceToken(body)
	if !ok {
		monitoring.TokenExchangesTotal.WithLabelValues("shared_secret", "bad_shape").Inc()
		s.logger.WithField("shape", fmt.Sprintf("%T", body)).
			Error("credential exchange returned unexpected shape, proceeding unauthenticated")
		return "", false
	}

	monitoring.TokenExchangesTotal.WithLabelValues("shared_secret", "ok").Inc()
	return token, true
}

// coerceToken accepts a bare string, a {"token": ...} object, or any other
// scalar (coerced to its string form as a defensive fallback).
func coerceToken(body interface{}) (string, bool) {
	switch v := body.(type) {
	case nil:
		return "", false
	case string:
		return v, v != ""
	case map[string]interface{}:
		if tok, ok := v["token"]; ok {
			return coerceToken(tok)
		}
		return "", false
	case float64, bool, int, int64:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}

// RESTExchanger adapts the generic REST transport to the TokenExchanger
// interface: POST to the admin-token endpoint with the credential pair.
type RESTExchanger struct {
	Do       func(ctx context.Context, method, endpoint string, headers map[string]string, payload interface{}) (interface{}, error)
	Endpoint string
}

func (e *RESTExchanger) Exchange(ctx context.Context, username, password string) (interface{}, error) {
	return e.Do(ctx, http.MethodPost, e.Endpoint, nil, map[string]string{
		"username": username,
		"password": password,
	})
}
