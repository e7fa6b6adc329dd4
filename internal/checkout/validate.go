package checkout

import (
	"time"

	pkgerrors "github.com/calcuttafresh/storefront/pkg/errors"
)

const dateLayout = "2006-01-02"

// Selection is the transient set of checkout choices. It lives for a
// single submission request and is never persisted.
type Selection struct {
	AddressID     int64
	SlotID        int64
	DeliveryDate  string
	PaymentMethod PaymentMethod
}

// SessionState is the slice of session state the validation pipeline
// reads.
type SessionState struct {
	Loading       bool
	Authenticated bool
}

// validate runs the ordered pre-submission checks and short-circuits
// at the first failure. The order is load-bearing: the cutoff check
// assumes a date is present.
func validate(sess SessionState, sel Selection, now time.Time, cutoffHour int) error {
	if sess.Loading {
		return pkgerrors.New(pkgerrors.CodeDependency, "session not yet determined, retry shortly")
	}
	if !sess.Authenticated {
		return pkgerrors.New(pkgerrors.CodeUnauthenticated, "please sign in to place an order")
	}
	if sel.AddressID == 0 {
		return pkgerrors.New(pkgerrors.CodeMissingAddress, "please select a delivery address")
	}
	if sel.SlotID == 0 {
		return pkgerrors.New(pkgerrors.CodeMissingSlot, "please select a delivery slot")
	}
	if sel.DeliveryDate == "" {
		return pkgerrors.New(pkgerrors.CodeMissingDate, "please select a delivery date")
	}

	selected, err := time.ParseInLocation(dateLayout, sel.DeliveryDate, now.Location())
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery date").
			WithDetails(map[string]any{"delivery_date": sel.DeliveryDate})
	}
	// Same-day orders close at the cutoff hour; exactly on the hour is
	// already past it.
	if sameDay(selected, now) && now.Hour() >= cutoffHour {
		return pkgerrors.New(pkgerrors.CodeCutoffExceeded, "same-day delivery has closed for today, please pick a later date")
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
