package controllers

import (
	"net/http"
	"time"

	"github.com/calcuttafresh/storefront/api/middleware"
	"github.com/calcuttafresh/storefront/api/responses"
	"github.com/calcuttafresh/storefront/api/validators"
	checkoutpkg "github.com/calcuttafresh/storefront/internal/checkout"
	"github.com/calcuttafresh/storefront/pkg/logger"
)

type checkoutRequest struct {
	AddressID     int64  `json:"address_id"`
	SlotID        int64  `json:"slot_id"`
	DeliveryDate  string `json:"delivery_date"`
	PaymentMethod string `json:"payment_method"`
}

// CheckoutSubmit runs the validation pipeline and places (or stages,
// for prepaid methods) the order.
func CheckoutSubmit(svc *checkoutpkg.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := checkoutpkg.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), sessionView(r), checkoutpkg.Selection{
			AddressID:     payload.AddressID,
			SlotID:        payload.SlotID,
			DeliveryDate:  payload.DeliveryDate,
			PaymentMethod: method,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// CheckoutConfirm completes a prepaid order once the hosted payment
// overlay reports success.
func CheckoutConfirm(svc *checkoutpkg.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutpkg.ProviderCallback
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Confirm(r.Context(), sessionView(r), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// CheckoutDates returns the serviceable delivery dates.
func CheckoutDates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"dates": checkoutpkg.DeliveryDates(time.Now())})
	}
}

func sessionView(r *http.Request) checkoutpkg.SessionView {
	ctx := r.Context()
	view := checkoutpkg.SessionView{
		SessionID: middleware.SessionIDFromContext(ctx),
		Loading:   middleware.SessionLoadingFromContext(ctx),
	}
	if sess := middleware.SessionFromContext(ctx); sess.Authenticated() {
		view.Authenticated = true
		view.Token = sess.Token
	}
	return view
}
