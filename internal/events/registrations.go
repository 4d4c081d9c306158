package events

import (
	"context"

	"commerce-events-go/internal/client"
	apierrors "commerce-events-go/internal/errors"
)

// Registration is one webhook/journal subscription.
type Registration struct {
	RegistrationID string          `json:"registration_id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	WebhookURL     string          `json:"webhook_url,omitempty"`
	DeliveryType   string          `json:"delivery_type,omitempty"`
	Enabled        bool            `json:"enabled"`
	Events         []EventInterest `json:"events_of_interest,omitempty"`
}

// EventInterest ties a registration to one provider event code.
type EventInterest struct {
	ProviderID string `json:"provider_id"`
	EventCode  string `json:"event_code"`
}

// RegistrationInput is the creation payload.
type RegistrationInput struct {
	ClientID     string          `json:"client_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	WebhookURL   string          `json:"webhook_url,omitempty"`
	DeliveryType string          `json:"delivery_type"`
	Events       []EventInterest `json:"events_of_interest"`
}

// ListRegistrations returns every registration in the configured workspace.
func (c *Client) ListRegistrations(ctx context.Context) ([]Registration, *apierrors.APIError) {
	return listAs[Registration](ctx, c, c.workspacePath()+"/registrations", "registrations", apierrors.ResourceRegistration)
}

// GetRegistration fetches one registration by id.
func (c *Client) GetRegistration(ctx context.Context, registrationID string) client.Result {
	return c.get(ctx, c.workspacePath()+"/registrations/"+registrationID)
}

// CreateRegistration subscribes a webhook to the given events of interest.
func (c *Client) CreateRegistration(ctx context.Context, input RegistrationInput) client.Result {
	return c.post(ctx, c.workspacePath()+"/registrations", input)
}

// DeleteRegistration removes a registration.
func (c *Client) DeleteRegistration(ctx context.Context, registrationID string) client.Result {
	return c.delete(ctx, c.workspacePath()+"/registrations/"+registrationID)
}
