package auth

import (
	"context"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// TokenGetter is the capability the identity context exposes to this
// strategy (satisfied by *ims.Context).
type TokenGetter interface {
	GetToken(ctx context.Context) (string, error)
}

// DelegatedStrategy attaches a bearer token issued by the external identity
// context. No local caching: the identity context caches internally.
type DelegatedStrategy struct {
	identity TokenGetter
	logger   *log.Entry
}

// DelegatedOption customizes the strategy.
type DelegatedOption func(*DelegatedStrategy)

// WithDelegatedLogger injects the logger.
func WithDelegatedLogger(logger *log.Entry) DelegatedOption {
	return func(s *DelegatedStrategy) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewDelegatedStrategy builds the strategy over an identity context.
func NewDelegatedStrategy(identity TokenGetter, opts ...DelegatedOption) *DelegatedStrategy {
	s := &DelegatedStrategy{
		identity: identity,
		logger:   log.NewEntry(log.StandardLogger()),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Authorize attaches the delegated bearer token verbatim. Token issuance
// failures degrade to an unauthenticated request; the remote's 401 is the
// visible outcome.
func (s *DelegatedStrategy) Authorize(ctx context.Context, req *http.Request) error {
	token, err := s.identity.GetToken(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("identity token unavailable, proceeding unauthenticated")
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}
