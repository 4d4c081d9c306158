package constants

import "time"

// Transport retry policy. The resilient client only observes retries; the
// loop itself lives in the transport layer.
const (
	TransportMaxRetries    = 3
	TransportRetryInterval = 500 * time.Millisecond
	TransportMaxRetryDelay = 10 * time.Second
)

const (
	// SharedSecretTokenTTL is the cache lifetime for tokens issued by the
	// admin-token exchange. The endpoint does not communicate an expiry.
	SharedSecretTokenTTL = 3600 * time.Second
	// LoopBreakerDefaultTTL is how long an event fingerprint is remembered.
	LoopBreakerDefaultTTL = 60 * time.Second
)
