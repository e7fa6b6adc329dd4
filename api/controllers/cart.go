package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/calcuttafresh/storefront/api/middleware"
	"github.com/calcuttafresh/storefront/api/responses"
	"github.com/calcuttafresh/storefront/api/validators"
	cartpkg "github.com/calcuttafresh/storefront/internal/cart"
	"github.com/calcuttafresh/storefront/pkg/config"
	pkgerrors "github.com/calcuttafresh/storefront/pkg/errors"
	"github.com/calcuttafresh/storefront/pkg/logger"
)

type cartAddRequest struct {
	ID        string          `json:"id" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	Image     string          `json:"image" validate:"required"`
	Weight    string          `json:"weight,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type cartRemoveRequest struct {
	ID string `json:"id" validate:"required"`
}

type cartItemView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Weight    string `json:"weight,omitempty"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

type cartView struct {
	Items       []cartItemView `json:"items"`
	TotalItems  int            `json:"total_items"`
	Subtotal    string         `json:"subtotal"`
	DeliveryFee string         `json:"delivery_fee"`
	Total       string         `json:"total"`
}

// CartFetch returns the session's cart with derived totals.
func CartFetch(carts *cartpkg.Registry, checkoutCfg config.CheckoutConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}
		responses.WriteSuccess(w, newCartView(carts.Get(sessionID).Snapshot(), checkoutCfg))
	}
}

// CartAdd inserts or increments one item.
func CartAdd(carts *cartpkg.Registry, checkoutCfg config.CheckoutConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		var payload cartAddRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := carts.Get(sessionID).Add(cartpkg.Item{
			ID:        payload.ID,
			Name:      payload.Name,
			Image:     payload.Image,
			Weight:    payload.Weight,
			UnitPrice: payload.UnitPrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(state, checkoutCfg))
	}
}

// CartRemove decrements one item; removing the last unit drops the
// line. Unknown ids are a no-op.
func CartRemove(carts *cartpkg.Registry, checkoutCfg config.CheckoutConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		var payload cartRemoveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state := carts.Get(sessionID).Remove(payload.ID)
		responses.WriteSuccess(w, newCartView(state, checkoutCfg))
	}
}

// CartClear empties the cart unconditionally.
func CartClear(carts *cartpkg.Registry, checkoutCfg config.CheckoutConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		state := carts.Get(sessionID).Clear()
		responses.WriteSuccess(w, newCartView(state, checkoutCfg))
	}
}

func newCartView(state cartpkg.State, checkoutCfg config.CheckoutConfig) cartView {
	items := make([]cartItemView, 0, len(state.Items))
	for _, item := range state.Items {
		items = append(items, cartItemView{
			ID:        item.ID,
			Name:      item.Name,
			Image:     item.Image,
			Weight:    item.Weight,
			UnitPrice: item.UnitPrice.String(),
			Quantity:  item.Quantity,
		})
	}

	fee := decimal.NewFromInt(int64(checkoutCfg.DeliveryFee))
	subtotal := state.Subtotal()
	return cartView{
		Items:       items,
		TotalItems:  state.TotalItems(),
		Subtotal:    subtotal.String(),
		DeliveryFee: fee.String(),
		Total:       subtotal.Add(fee).String(),
	}
}
