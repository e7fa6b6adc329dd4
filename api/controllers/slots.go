package controllers

import (
	"net/http"

	"github.com/calcuttafresh/storefront/api/middleware"
	"github.com/calcuttafresh/storefront/api/responses"
	backendpkg "github.com/calcuttafresh/storefront/internal/backend"
	"github.com/calcuttafresh/storefront/pkg/logger"
)

// SlotList proxies the backend's delivery slots; failures degrade to
// an empty list.
func SlotList(client *backendpkg.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var token string
		if sess := middleware.SessionFromContext(r.Context()); sess.Authenticated() {
			token = sess.Token
		}

		slots, err := client.FetchSlots(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, slots)
	}
}
