package backend

import (
	"context"
	"fmt"
	"net/http"

	pkgerrors "github.com/calcuttafresh/storefront/pkg/errors"
)

// CreateOrder submits a finished order payload. A non-2xx status maps
// to the OrderSubmissionFailure kind carrying the server's message
// verbatim so the shopper sees exactly what the backend said.
func (c *Client) CreateOrder(ctx context.Context, token string, payload OrderPayload) (*OrderConfirmation, error) {
	status, raw, err := c.do(ctx, "create_order", http.MethodPost, "/api/orders", token, payload)
	if err != nil {
		return nil, err
	}
	if !success(status) {
		return nil, pkgerrors.New(pkgerrors.CodeOrderSubmission, serverMessage(raw, "Order failed"))
	}

	var confirmation OrderConfirmation
	if err := decodeInto(raw, &confirmation, "create_order"); err != nil {
		return nil, err
	}
	if confirmation.OrderID.String() == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNetworkFailure, "order confirmation missing order_id")
	}
	return &confirmation, nil
}

// ListUserOrders returns the order history for a user.
func (c *Client) ListUserOrders(ctx context.Context, token string, userID int64) ([]OrderSummary, error) {
	path := fmt.Sprintf("/api/orders/user/%d", userID)
	status, raw, err := c.do(ctx, "list_orders", http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}
	if !success(status) {
		return nil, pkgerrors.New(pkgerrors.CodeNetworkFailure, serverMessage(raw, "failed to fetch orders"))
	}

	orders := []OrderSummary{}
	if err := decodeInto(raw, &orders, "list_orders"); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder fetches a single order, used by the confirmation view.
func (c *Client) GetOrder(ctx context.Context, token, orderID string) (*OrderSummary, error) {
	status, raw, err := c.do(ctx, "get_order", http.MethodGet, "/api/orders/"+orderID, token, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if !success(status) {
		return nil, pkgerrors.New(pkgerrors.CodeNetworkFailure, serverMessage(raw, "failed to fetch order"))
	}

	var order OrderSummary
	if err := decodeInto(raw, &order, "get_order"); err != nil {
		return nil, err
	}
	return &order, nil
}
