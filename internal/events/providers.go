package events

import (
	"context"
	"fmt"

	"commerce-events-go/internal/client"
	apierrors "commerce-events-go/internal/errors"
)

// Provider is one event provider as returned by the management API.
type Provider struct {
	ID               string `json:"id"`
	Label            string `json:"label"`
	Description      string `json:"description,omitempty"`
	Source           string `json:"source,omitempty"`
	DocsURL          string `json:"docs_url,omitempty"`
	ProviderMetadata string `json:"provider_metadata,omitempty"`
	InstanceID       string `json:"instance_id,omitempty"`
	EventDelivery    string `json:"event_delivery_format,omitempty"`
	Publisher        string `json:"publisher,omitempty"`
}

// ProviderInput is the creation payload.
type ProviderInput struct {
	Label            string `json:"label"`
	Description      string `json:"description,omitempty"`
	DocsURL          string `json:"docs_url,omitempty"`
	ProviderMetadata string `json:"provider_metadata,omitempty"`
	InstanceID       string `json:"instance_id,omitempty"`
}

// ListProviders returns every provider visible to the configured consumer
// organization, following pagination to the end.
func (c *Client) ListProviders(ctx context.Context) ([]Provider, *apierrors.APIError) {
	url := fmt.Sprintf("/events/%s/providers", c.consumerID)
	return listAs[Provider](ctx, c, url, "providers", apierrors.ResourceProvider)
}

// GetProvider fetches one provider by id.
func (c *Client) GetProvider(ctx context.Context, providerID string) client.Result {
	return c.get(ctx, "/events/providers/"+providerID)
}

// CreateProvider registers a new provider in the configured workspace.
func (c *Client) CreateProvider(ctx context.Context, input ProviderInput) client.Result {
	return c.post(ctx, c.workspacePath()+"/providers", input)
}

// DeleteProvider removes a provider from the configured workspace.
func (c *Client) DeleteProvider(ctx context.Context, providerID string) client.Result {
	return c.delete(ctx, c.workspacePath()+"/providers/"+providerID)
}
