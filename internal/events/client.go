// Package events is the client for the event provider, metadata and
// registration management API. Collections are hypermedia-paginated and are
// assembled through the hal fetcher; single-resource operations forward to
// the resilient client.
package events

import (
	"context"
	"fmt"
	"net/http"

	"commerce-events-go/internal/client"
	apierrors "commerce-events-go/internal/errors"
	"commerce-events-go/internal/hal"
)

// Client calls the event management API on behalf of one workspace.
type Client struct {
	c       *client.Client
	fetcher *hal.Fetcher

	apiKey      string
	consumerID  string
	projectID   string
	workspaceID string
}

// Option customizes the Client.
type Option func(*Client)

// WithMaxPages caps collection pagination. Unset means unbounded.
func WithMaxPages(n int) Option {
	return func(c *Client) {
		c.fetcher = hal.NewFetcher(c.c.Transport(), hal.WithMaxPages(n))
	}
}

// New builds an event API client. auth is normally the delegated bearer
// strategy; consumerID, projectID and workspaceID scope every collection URL.
func New(baseURL, apiKey, consumerID, projectID, workspaceID string, auth client.Authorizer, opts ...Option) *Client {
	c := client.New("events", baseURL, auth)
	ec := &Client{
		c:           c,
		fetcher:     hal.NewFetcher(c.Transport()),
		apiKey:      apiKey,
		consumerID:  consumerID,
		projectID:   projectID,
		workspaceID: workspaceID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ec)
		}
	}
	return ec
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"x-api-key": c.apiKey,
		"Accept":    hal.AcceptHeader,
	}
}

// workspacePath is the base for resources owned by the configured workspace.
func (c *Client) workspacePath() string {
	return fmt.Sprintf("/events/%s/%s/%s", c.consumerID, c.projectID, c.workspaceID)
}

// listAs fetches every page of a collection and decodes the items, folding
// fetch failures through the resource-specific normalizer.
func listAs[T any](ctx context.Context, c *Client, startURL, embedKey string, resource apierrors.Resource) ([]T, *apierrors.APIError) {
	items, err := hal.FetchAllAs[T](ctx, c.fetcher, startURL, embedKey, c.headers())
	if err != nil {
		return nil, apierrors.Normalize(err, resource)
	}
	return items, nil
}

func (c *Client) get(ctx context.Context, endpoint string) client.Result {
	return c.c.Do(ctx, endpoint, http.MethodGet, c.headers(), nil)
}

func (c *Client) post(ctx context.Context, endpoint string, payload interface{}) client.Result {
	return c.c.Do(ctx, endpoint, http.MethodPost, c.headers(), payload)
}

func (c *Client) delete(ctx context.Context, endpoint string) client.Result {
	return c.c.Do(ctx, endpoint, http.MethodDelete, c.headers(), nil)
}
