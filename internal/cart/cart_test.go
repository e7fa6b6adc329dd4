package cart

import (
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/calcuttafresh/storefront/pkg/errors"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(id, name string, unitPrice string) Item {
	return Item{ID: id, Name: name, Image: "/img/" + id + ".jpg", UnitPrice: price(unitPrice)}
}

func TestReduce_AddInsertsWithQuantityOne(t *testing.T) {
	state := Reduce(State{}, AddItem{Item: item("p1", "Rohu Fish", "250")})

	if len(state.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(state.Items))
	}
	if state.Items[0].Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", state.Items[0].Quantity)
	}
}

func TestReduce_AddExistingIncrementsAndIgnoresPayloadFields(t *testing.T) {
	state := Reduce(State{}, AddItem{Item: item("p1", "Rohu Fish", "250")})

	dup := item("p1", "Renamed", "999")
	dup.Image = "/other.jpg"
	state = Reduce(state, AddItem{Item: dup})

	if len(state.Items) != 1 {
		t.Fatalf("expected single line for duplicate id, got %d", len(state.Items))
	}
	got := state.Items[0]
	if got.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", got.Quantity)
	}
	if got.Name != "Rohu Fish" {
		t.Fatalf("existing display fields must be untouched, got name %q", got.Name)
	}
	if !got.UnitPrice.Equal(price("250")) {
		t.Fatalf("existing price must be untouched, got %s", got.UnitPrice)
	}
}

func TestReduce_AddPreservesInsertionOrder(t *testing.T) {
	state := State{}
	for _, id := range []string{"c", "a", "b"} {
		state = Reduce(state, AddItem{Item: item(id, "Item "+id, "10")})
	}
	state = Reduce(state, AddItem{Item: item("a", "Item a", "10")})

	order := []string{}
	for _, it := range state.Items {
		order = append(order, it.ID)
	}
	if order[0] != "c" || order[1] != "a" || order[2] != "b" {
		t.Fatalf("unexpected order %v", order)
	}
}

func TestReduce_RemoveDecrementsThenDeletes(t *testing.T) {
	state := State{}
	state = Reduce(state, AddItem{Item: item("p1", "Prawns", "450")})
	state = Reduce(state, AddItem{Item: item("p1", "Prawns", "450")})

	state = Reduce(state, RemoveItem{ID: "p1"})
	if got, ok := state.Find("p1"); !ok || got.Quantity != 1 {
		t.Fatalf("expected quantity 1 after first remove, got %+v ok=%v", got, ok)
	}

	state = Reduce(state, RemoveItem{ID: "p1"})
	if _, ok := state.Find("p1"); ok {
		t.Fatal("expected item removed at quantity zero")
	}
}

func TestReduce_RemoveUnknownIsNoop(t *testing.T) {
	start := Reduce(State{}, AddItem{Item: item("p1", "Prawns", "450")})
	state := Reduce(start, RemoveItem{ID: "missing"})

	if len(state.Items) != 1 || state.Items[0].Quantity != 1 {
		t.Fatalf("remove of absent id must not change the cart, got %+v", state.Items)
	}
}

func TestReduce_AddThenRemoveRestoresPriorState(t *testing.T) {
	prior := Reduce(State{}, AddItem{Item: item("p1", "Hilsa", "1200")})

	state := Reduce(prior, AddItem{Item: item("p2", "Pomfret", "600")})
	state = Reduce(state, RemoveItem{ID: "p2"})

	if len(state.Items) != len(prior.Items) {
		t.Fatalf("expected prior state restored, got %+v", state.Items)
	}
	if state.Items[0].ID != "p1" || state.Items[0].Quantity != 1 {
		t.Fatalf("unexpected surviving line %+v", state.Items[0])
	}
}

func TestReduce_Clear(t *testing.T) {
	state := Reduce(State{}, AddItem{Item: item("p1", "Hilsa", "1200")})
	state = Reduce(state, Clear{})
	if len(state.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(state.Items))
	}
}

func TestReduce_NeverStoresInvalidQuantities(t *testing.T) {
	// Arbitrary interleaving of adds and removes across two products.
	state := State{}
	script := []Action{
		AddItem{Item: item("a", "A", "10")},
		RemoveItem{ID: "a"},
		RemoveItem{ID: "a"},
		AddItem{Item: item("a", "A", "10")},
		AddItem{Item: item("b", "B", "20")},
		AddItem{Item: item("a", "A", "10")},
		RemoveItem{ID: "b"},
		RemoveItem{ID: "b"},
		AddItem{Item: item("b", "B", "20")},
	}
	for _, act := range script {
		state = Reduce(state, act)
		seen := map[string]bool{}
		for _, it := range state.Items {
			if it.Quantity <= 0 {
				t.Fatalf("cart stored quantity %d for %s", it.Quantity, it.ID)
			}
			if seen[it.ID] {
				t.Fatalf("duplicate line for id %s", it.ID)
			}
			seen[it.ID] = true
		}
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	start := Reduce(State{}, AddItem{Item: item("p1", "Hilsa", "1200")})
	_ = Reduce(start, AddItem{Item: item("p1", "Hilsa", "1200")})

	if start.Items[0].Quantity != 1 {
		t.Fatalf("input state mutated: quantity %d", start.Items[0].Quantity)
	}
}

func TestSubtotal_ExactDecimalArithmetic(t *testing.T) {
	state := Reduce(State{}, AddItem{Item: item("p1", "Basa Fillet", "45.50")})
	if !state.Subtotal().Equal(price("45.50")) {
		t.Fatalf("expected subtotal 45.50, got %s", state.Subtotal())
	}

	state = Reduce(state, AddItem{Item: item("p1", "Basa Fillet", "45.50")})
	if !state.Subtotal().Equal(price("91.00")) {
		t.Fatalf("expected subtotal 91.00, got %s", state.Subtotal())
	}
	if state.TotalItems() != 2 {
		t.Fatalf("expected 2 total items, got %d", state.TotalItems())
	}
}

func TestValidateDescriptor(t *testing.T) {
	if err := ValidateDescriptor(item("p1", "Hilsa", "1200")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := Item{Name: "No ID", UnitPrice: price("10")}
	err := ValidateDescriptor(bad)
	if err == nil {
		t.Fatal("expected error for missing id and image")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}

	negative := item("p2", "Neg", "10")
	negative.UnitPrice = price("-1")
	if err := ValidateDescriptor(negative); err == nil {
		t.Fatal("expected error for negative price")
	}
}
