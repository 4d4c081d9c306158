package commerce

import (
	"context"
	"fmt"
	"net/url"

	"commerce-events-go/internal/client"
)

// GetOrder fetches one order by entity id.
func (c *Client) GetOrder(ctx context.Context, orderID int64) client.Result {
	return c.Get(ctx, fmt.Sprintf("/orders/%d", orderID))
}

// SearchOrders runs a field-equality search against the order grid.
func (c *Client) SearchOrders(ctx context.Context, field, value string) client.Result {
	q := url.Values{}
	q.Set("searchCriteria[filter_groups][0][filters][0][field]", field)
	q.Set("searchCriteria[filter_groups][0][filters][0][value]", value)
	q.Set("searchCriteria[filter_groups][0][filters][0][condition_type]", "eq")
	return c.Get(ctx, "/orders?"+q.Encode())
}

// UpdateOrderStatus appends a status-changing comment to an order.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, status, comment string) client.Result {
	payload := map[string]interface{}{
		"statusHistory": map[string]interface{}{
			"comment":              comment,
			"status":               status,
			"is_customer_notified": 0,
			"is_visible_on_front":  0,
		},
	}
	return c.Post(ctx, fmt.Sprintf("/orders/%d/comments", orderID), payload)
}

// PublishEvent hands an integration event to the instance's eventing module
// for asynchronous delivery.
func (c *Client) PublishEvent(ctx context.Context, eventCode string, payload interface{}) client.Result {
	return c.Post(ctx, "/events/publish", map[string]interface{}{
		"event_code": eventCode,
		"event_data": payload,
	})
}
