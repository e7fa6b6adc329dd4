package checkout

import (
	"strings"

	pkgerrors "github.com/calcuttafresh/storefront/pkg/errors"
)

// PaymentMethod is the fixed set of ways an order can be paid. Values
// match the backend's wire vocabulary.
type PaymentMethod string

const (
	CashOnDelivery PaymentMethod = "COD"
	UPI            PaymentMethod = "UPI"
	NetBanking     PaymentMethod = "NETBANKING"
	Card           PaymentMethod = "CARD"
)

// ParsePaymentMethod normalizes a client-supplied method. An empty
// value defaults to cash on delivery.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToUpper(strings.TrimSpace(raw))) {
	case "":
		return CashOnDelivery, nil
	case CashOnDelivery:
		return CashOnDelivery, nil
	case UPI:
		return UPI, nil
	case NetBanking:
		return NetBanking, nil
	case Card:
		return Card, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method").
			WithDetails(map[string]any{"payment_method": raw})
	}
}

// Prepaid reports whether the method routes through the payment
// provider before order creation.
func (m PaymentMethod) Prepaid() bool {
	return m != CashOnDelivery
}
