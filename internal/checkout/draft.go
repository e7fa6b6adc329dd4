package checkout

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/calcuttafresh/storefront/internal/backend"
	"github.com/calcuttafresh/storefront/internal/cart"
)

// DraftItem is one order line derived from a cart item.
type DraftItem struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// OrderDraft is the one-shot payload assembled at submission time.
// It is never mutated after construction and submitted at most once
// per placement attempt.
type OrderDraft struct {
	AddressID     int64
	SlotID        int64
	DeliveryDate  string
	PaymentMethod PaymentMethod
	Items         []DraftItem
	Subtotal      decimal.Decimal
	DeliveryFee   decimal.Decimal
	TotalPrice    decimal.Decimal
}

// buildDraft maps the cart snapshot and selection into an OrderDraft.
// Items keep cart order; a quantity that was never set counts as 1.
func buildDraft(state cart.State, sel Selection, fee decimal.Decimal) OrderDraft {
	items := make([]DraftItem, 0, len(state.Items))
	subtotal := decimal.Zero
	for _, item := range state.Items {
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		items = append(items, DraftItem{
			ProductID: item.ID,
			Quantity:  quantity,
			UnitPrice: item.UnitPrice,
		})
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))))
	}

	return OrderDraft{
		AddressID:     sel.AddressID,
		SlotID:        sel.SlotID,
		DeliveryDate:  sel.DeliveryDate,
		PaymentMethod: sel.PaymentMethod,
		Items:         items,
		Subtotal:      subtotal,
		DeliveryFee:   fee,
		TotalPrice:    subtotal.Add(fee),
	}
}

// paymentAmount sizes the provider-side payment order: the draft total
// plus the delivery fee.
func paymentAmount(draft OrderDraft) decimal.Decimal {
	return draft.TotalPrice.Add(draft.DeliveryFee)
}

// payload converts the draft into the backend's order-creation shape.
func (d OrderDraft) payload() backend.OrderPayload {
	items := make([]backend.OrderItem, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, backend.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     json.Number(item.UnitPrice.String()),
		})
	}
	return backend.OrderPayload{
		AddressID:     d.AddressID,
		SlotID:        d.SlotID,
		SlotDate:      d.DeliveryDate,
		PaymentMethod: string(d.PaymentMethod),
		Items:         items,
		TotalPrice:    json.Number(d.TotalPrice.String()),
	}
}
