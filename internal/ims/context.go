// Package ims is the client of the external identity-token service. Tokens
// are issued via the OAuth2 client-credentials grant; caching and refresh are
// handled inside the oauth2 token source, so callers fetch per call.
package ims

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"commerce-events-go/internal/constants"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Config describes one identity context.
type Config struct {
	TokenURL              string
	ClientID              string
	ClientSecrets         []string
	TechnicalAccountID    string
	TechnicalAccountEmail string
	OrgID                 string
	Scopes                []string
}

// Context is a registry of named identity configurations. One of them is the
// current context used for token issuance.
type Context struct {
	mu         sync.RWMutex
	current    string
	sources    map[string]oauth2.TokenSource
	configs    map[string]Config
	httpClient *http.Client
}

// Option customizes Context creation.
type Option func(*Context)

// WithHTTPClient overrides the HTTP client used for token calls.
func WithHTTPClient(cli *http.Client) Option {
	return func(c *Context) {
		if cli != nil {
			c.httpClient = cli
		}
	}
}

// NewContext creates an empty identity context registry.
func NewContext(opts ...Option) *Context {
	c := &Context{
		sources:    make(map[string]oauth2.TokenSource),
		configs:    make(map[string]Config),
		httpClient: &http.Client{Timeout: constants.TokenExchangeTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Set registers (or replaces) the named identity configuration.
func (c *Context) Set(name string, cfg Config) error {
	if name == "" {
		return fmt.Errorf("identity context name is required")
	}
	if cfg.ClientID == "" || len(cfg.ClientSecrets) == 0 {
		return fmt.Errorf("identity context %q: client_id and client_secrets are required", name)
	}
	if cfg.TokenURL == "" {
		return fmt.Errorf("identity context %q: token_url is required", name)
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecrets[0],
		TokenURL:     cfg.TokenURL,
		Scopes:       append([]string(nil), cfg.Scopes...),
	}
	baseCtx := context.WithValue(context.Background(), oauth2.HTTPClient, c.httpClient)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.configs[name] = cfg
	c.sources[name] = cc.TokenSource(baseCtx)
	if c.current == "" {
		c.current = name
	}
	return nil
}

// SetCurrent selects which named configuration issues tokens.
func (c *Context) SetCurrent(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.sources[name]; !ok {
		return fmt.Errorf("unknown identity context %q", name)
	}
	c.current = name
	return nil
}

// Current returns the name of the active context ("" when none).
func (c *Context) Current() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// GetToken returns a valid bearer token for the current context. The token
// source reuses unexpired tokens internally.
func (c *Context) GetToken(_ context.Context) (string, error) {
	c.mu.RLock()
	source, ok := c.sources[c.current]
	c.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("no identity context configured")
	}

	tok, err := source.Token()
	if err != nil {
		return "", fmt.Errorf("failed to obtain identity token: %w", err)
	}
	return tok.AccessToken, nil
}
