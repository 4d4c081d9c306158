// Package commerce is the back-office REST client. Calls go through the
// resilient client under the store-view-scoped REST base path; write access
// is signed with OAuth1 keys when present and falls back to an admin-token
// bearer exchange otherwise.
package commerce

import (
	"context"
	"net/http"

	"commerce-events-go/internal/auth"
	"commerce-events-go/internal/client"
	"commerce-events-go/internal/config"
	"commerce-events-go/internal/store"
)

// adminTokenEndpoint issues a bare-string bearer token for an admin
// credential pair.
const adminTokenEndpoint = "/rest/V1/integration/admin/token"

// Client calls the back-office REST API of one store view.
type Client struct {
	c         *client.Client
	storeView string
}

// Option customizes the Client.
type Option func(*options)

type options struct {
	tokenCache store.Store
	transport  []client.TransportOption
}

// WithTokenCache backs the admin-token fallback strategy with a shared TTL
// cache. Ignored when OAuth1 keys are configured.
func WithTokenCache(cache store.Store) Option {
	return func(o *options) { o.tokenCache = cache }
}

// WithTransportOptions forwards extra options to the underlying transport.
func WithTransportOptions(opts ...client.TransportOption) Option {
	return func(o *options) { o.transport = append(o.transport, opts...) }
}

// New builds a back-office client with an explicit authorization strategy.
func New(baseURL, storeView string, authorizer client.Authorizer, transportOpts ...client.TransportOption) *Client {
	return &Client{
		c:         client.New("commerce", baseURL, authorizer, transportOpts...),
		storeView: storeView,
	}
}

// FromConfig builds a back-office client, selecting the authorization
// strategy from the credential material present: OAuth1 keys win, otherwise
// the admin username/password pair is exchanged for a bearer token against
// the instance itself.
func FromConfig(cfg config.CommerceConfig, opts ...Option) *Client {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if cfg.ConsumerKey != "" {
		strategy := auth.NewSigningStrategy(cfg.ConsumerKey, cfg.ConsumerSecret, cfg.AccessToken, cfg.AccessTokenSecret)
		return New(cfg.BaseURL, cfg.StoreView, strategy, o.transport...)
	}

	// The exchange transport is unauthenticated: the token endpoint only
	// takes the credential pair in the body.
	exchangeTransport := client.NewTransport(cfg.BaseURL, o.transport...)
	exchanger := &auth.RESTExchanger{
		Do:       exchangeTransport.Do,
		Endpoint: adminTokenEndpoint,
	}
	var strategyOpts []auth.SharedSecretOption
	if o.tokenCache != nil {
		strategyOpts = append(strategyOpts, auth.WithTokenCache(o.tokenCache))
	}
	strategy := auth.NewSharedSecretStrategy(exchanger, cfg.AdminUsername, cfg.AdminPassword, strategyOpts...)
	return New(cfg.BaseURL, cfg.StoreView, strategy, o.transport...)
}

func (c *Client) endpoint(path string) string {
	return "/rest/" + c.storeView + "/V1" + path
}

// Get issues a GET under the store view's V1 base path.
func (c *Client) Get(ctx context.Context, path string) client.Result {
	return c.c.Do(ctx, c.endpoint(path), http.MethodGet, nil, nil)
}

// Post issues a POST under the store view's V1 base path.
func (c *Client) Post(ctx context.Context, path string, payload interface{}) client.Result {
	return c.c.Do(ctx, c.endpoint(path), http.MethodPost, nil, payload)
}

// Put issues a PUT under the store view's V1 base path.
func (c *Client) Put(ctx context.Context, path string, payload interface{}) client.Result {
	return c.c.Do(ctx, c.endpoint(path), http.MethodPut, nil, payload)
}

// Delete issues a DELETE under the store view's V1 base path.
func (c *Client) Delete(ctx context.Context, path string) client.Result {
	return c.c.Do(ctx, c.endpoint(path), http.MethodDelete, nil, nil)
}
