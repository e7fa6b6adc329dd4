package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/calcuttafresh/storefront/api/middleware"
	"github.com/calcuttafresh/storefront/api/responses"
	backendpkg "github.com/calcuttafresh/storefront/internal/backend"
	pkgerrors "github.com/calcuttafresh/storefront/pkg/errors"
	"github.com/calcuttafresh/storefront/pkg/logger"
)

// OrderHistory lists the signed-in user's past orders.
func OrderHistory(client *backendpkg.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())

		orders, err := client.ListUserOrders(r.Context(), sess.Token, sess.Identity.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orders)
	}
}

// OrderFetch returns a single order for the confirmation view.
func OrderFetch(client *backendpkg.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())

		orderID := chi.URLParam(r, "orderID")
		if orderID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id required"))
			return
		}

		order, err := client.GetOrder(r.Context(), sess.Token, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}
