// Package auth provides the authentication strategies used against the
// remote APIs:
//
//   - SharedSecretStrategy: exchanges an admin username/password for a
//     bearer token, cached with a fixed TTL
//   - SigningStrategy: signs every request with an HMAC-SHA256 signature
//     derived from consumer and token secrets
//   - DelegatedStrategy: attaches a bearer token issued by the external
//     identity context
//
// Strategies never fail a request for expected credential problems; they
// degrade to an unauthenticated or clearly-invalid header so the remote's
// 401/403 flows through the normal error path.
package auth

import (
	"context"
	"net/http"
)

// Strategy augments a pending request with valid authorization. It must not
// mutate shared state beyond its own credential cache and must be safe to
// call concurrently.
type Strategy interface {
	Authorize(ctx context.Context, req *http.Request) error
}
