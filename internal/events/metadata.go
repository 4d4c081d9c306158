package events

import (
	"context"

	"commerce-events-go/internal/client"
	apierrors "commerce-events-go/internal/errors"
)

// EventMetadata describes one event type a provider can emit.
type EventMetadata struct {
	EventCode   string `json:"event_code"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	SampleEvent string `json:"sample_event_template,omitempty"`
}

// MetadataInput is the creation payload.
type MetadataInput struct {
	EventCode   string `json:"event_code"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	SampleEvent string `json:"sample_event_template,omitempty"`
}

// ListEventMetadata returns the full metadata collection of a provider.
func (c *Client) ListEventMetadata(ctx context.Context, providerID string) ([]EventMetadata, *apierrors.APIError) {
	url := "/events/providers/" + providerID + "/eventmetadata"
	return listAs[EventMetadata](ctx, c, url, "eventmetadata", apierrors.ResourceEventMetadata)
}

// GetEventMetadata fetches the metadata of one event code.
func (c *Client) GetEventMetadata(ctx context.Context, providerID, eventCode string) client.Result {
	return c.get(ctx, "/events/providers/"+providerID+"/eventmetadata/"+eventCode)
}

// CreateEventMetadata declares a new event type on a workspace provider.
func (c *Client) CreateEventMetadata(ctx context.Context, providerID string, input MetadataInput) client.Result {
	return c.post(ctx, c.workspacePath()+"/providers/"+providerID+"/eventmetadata", input)
}

// DeleteEventMetadata removes one event type from a workspace provider.
func (c *Client) DeleteEventMetadata(ctx context.Context, providerID, eventCode string) client.Result {
	return c.delete(ctx, c.workspacePath()+"/providers/"+providerID+"/eventmetadata/"+eventCode)
}
