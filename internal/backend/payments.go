package backend

import (
	"context"
	"net/http"

	pkgerrors "github.com/calcuttafresh/storefront/pkg/errors"
)

type paymentOrderRequest struct {
	Amount string `json:"amount"`
}

// CreatePaymentOrder asks the payment gateway for a provider-side
// order covering the given amount. The endpoint is unauthenticated on
// the backend so no bearer token is attached. Failures surface a
// generic message rather than gateway internals.
func (c *Client) CreatePaymentOrder(ctx context.Context, amount string) (*PaymentOrder, error) {
	status, raw, err := c.do(ctx, "create_payment_order", http.MethodPost, "/api/payments/create-order", "", paymentOrderRequest{Amount: amount})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePaymentOrder, err, "failed to create payment order")
	}
	if !success(status) {
		return nil, pkgerrors.New(pkgerrors.CodePaymentOrder, "failed to create payment order")
	}

	var order PaymentOrder
	if err := decodeInto(raw, &order, "create_payment_order"); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePaymentOrder, err, "failed to create payment order")
	}
	if order.OrderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodePaymentOrder, "payment order missing id")
	}
	return &order, nil
}
