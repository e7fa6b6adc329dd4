package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/calcuttafresh/storefront/api/middleware"
	"github.com/calcuttafresh/storefront/api/responses"
	"github.com/calcuttafresh/storefront/api/validators"
	backendpkg "github.com/calcuttafresh/storefront/internal/backend"
	pkgerrors "github.com/calcuttafresh/storefront/pkg/errors"
	"github.com/calcuttafresh/storefront/pkg/logger"
)

// AddressList proxies the user's address book. A backend failure
// yields an empty list so the checkout form still renders.
func AddressList(client *backendpkg.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())

		addresses, err := client.ListAddresses(r.Context(), sess.Token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, addresses)
	}
}

func AddressCreate(client *backendpkg.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())

		var payload backendpkg.AddressInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		address, err := client.CreateAddress(r.Context(), sess.Token, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, address)
	}
}

func AddressUpdate(client *backendpkg.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())

		addressID, err := addressIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload backendpkg.AddressInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		address, err := client.UpdateAddress(r.Context(), sess.Token, addressID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, address)
	}
}

func AddressDelete(client *backendpkg.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())

		addressID, err := addressIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := client.DeleteAddress(r.Context(), sess.Token, addressID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func addressIDFromRequest(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "addressID")
	addressID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || addressID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid address id")
	}
	return addressID, nil
}
