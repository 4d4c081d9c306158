package constants

import "time"

const (
	// DefaultDialTimeout bounds TCP dial to a remote API.
	DefaultDialTimeout = 10 * time.Second
	// DefaultTLSHandshakeTimeout bounds the TLS handshake.
	DefaultTLSHandshakeTimeout = 10 * time.Second
	// DefaultResponseHeaderTimeout bounds the wait for response headers.
	DefaultResponseHeaderTimeout = 60 * time.Second
	// DefaultRequestTimeout bounds one complete outbound call.
	DefaultRequestTimeout = 30 * time.Second
	// TokenExchangeTimeout bounds a credential-exchange call.
	TokenExchangeTimeout = 15 * time.Second
	// ServerShutdownTimeout bounds graceful HTTP server shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

const (
	DefaultKeepAlive        = 30 * time.Second
	BaseMaxIdleConns        = 64
	BaseMaxIdleConnsPerHost = 16
	BaseIdleConnTimeout     = 90 * time.Second
)
