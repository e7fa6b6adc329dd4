package cart

import (
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/calcuttafresh/storefront/pkg/errors"
)

// Item is one product line the shopper intends to buy. ID, Name,
// UnitPrice, and Image are required at the store boundary; Weight is
// display-only. Quantity is at least 1 for any item held in a cart;
// an item decremented to zero is removed, never stored.
type Item struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Weight    string          `json:"weight,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// State is the full cart contents in insertion order, unique by item ID.
type State struct {
	Items []Item
}

// TotalItems sums the quantities across all lines.
func (s State) TotalItems() int {
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

// Subtotal sums unit price times quantity across all lines.
func (s State) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range s.Items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal
}

// Find returns the line with the given product ID, if present.
func (s State) Find(id string) (Item, bool) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

func (s State) clone() State {
	items := make([]Item, len(s.Items))
	copy(items, s.Items)
	return State{Items: items}
}

// Action is a discrete cart mutation handled by Reduce.
type Action interface {
	isAction()
}

// AddItem inserts the item with quantity 1, or increments the existing
// line's quantity by 1 when the ID is already present (all other fields
// of the payload are ignored in that case).
type AddItem struct {
	Item Item
}

// RemoveItem decrements the quantity of the identified line by 1 and
// removes the line when it reaches zero. Unknown IDs are a no-op.
type RemoveItem struct {
	ID string
}

// Clear empties the cart unconditionally.
type Clear struct{}

func (AddItem) isAction()    {}
func (RemoveItem) isAction() {}
func (Clear) isAction()      {}

// Reduce is the cart state machine: a pure function of (state, action).
// Neither input is mutated.
func Reduce(state State, action Action) State {
	switch act := action.(type) {
	case AddItem:
		next := state.clone()
		for i := range next.Items {
			if next.Items[i].ID == act.Item.ID {
				next.Items[i].Quantity++
				return next
			}
		}
		inserted := act.Item
		inserted.Quantity = 1
		next.Items = append(next.Items, inserted)
		return next

	case RemoveItem:
		next := State{Items: make([]Item, 0, len(state.Items))}
		for _, item := range state.Items {
			if item.ID == act.ID {
				item.Quantity--
				if item.Quantity <= 0 {
					continue
				}
			}
			next.Items = append(next.Items, item)
		}
		return next

	case Clear:
		return State{}

	default:
		return state
	}
}

// ValidateDescriptor enforces the required fields of an add-item payload
// before it reaches the reducer.
func ValidateDescriptor(item Item) error {
	missing := []string{}
	if strings.TrimSpace(item.ID) == "" {
		missing = append(missing, "id")
	}
	if strings.TrimSpace(item.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(item.Image) == "" {
		missing = append(missing, "image")
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "item descriptor incomplete").WithDetails(map[string]any{"missing": missing})
	}
	if item.UnitPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
	}
	return nil
}
