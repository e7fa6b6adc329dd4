package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calcuttafresh/storefront/api/middleware"
	"github.com/calcuttafresh/storefront/internal/cart"
	"github.com/calcuttafresh/storefront/pkg/config"
)

func cartRouter(carts *cart.Registry) http.Handler {
	cfg := config.CheckoutConfig{DeliveryFee: 30, CutoffHour: 9}
	r := chi.NewRouter()
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", CartFetch(carts, cfg, nil))
		r.Post("/items", CartAdd(carts, cfg, nil))
		r.Post("/items/remove", CartRemove(carts, cfg, nil))
		r.Post("/clear", CartClear(carts, cfg, nil))
	})
	return r
}

func doCart(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req = req.WithContext(middleware.WithSessionID(req.Context(), "s1"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	}
	return rec, envelope.Data
}

func TestCartAddAndFetch(t *testing.T) {
	carts := cart.NewRegistry()
	router := cartRouter(carts)

	body := `{"id":"p1","name":"Basmati Rice","image":"rice.jpg","weight":"1kg","unit_price":"45.50"}`
	rec, data := doCart(t, router, http.MethodPost, "/api/cart/items", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, data["total_items"])

	// Same id again increments, ignoring changed display fields.
	rec, data = doCart(t, router, http.MethodPost, "/api/cart/items", `{"id":"p1","name":"Renamed","image":"other.jpg","unit_price":"999"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, data["total_items"])
	assert.Equal(t, "91", data["subtotal"])
	assert.Equal(t, "30", data["delivery_fee"])
	assert.Equal(t, "121", data["total"])

	items := data["items"].([]any)
	require.Len(t, items, 1)
	line := items[0].(map[string]any)
	assert.Equal(t, "Basmati Rice", line["name"])
	assert.EqualValues(t, 2, line["quantity"])
}

func TestCartAddValidation(t *testing.T) {
	router := cartRouter(cart.NewRegistry())

	rec, _ := doCart(t, router, http.MethodPost, "/api/cart/items", `{"name":"No ID"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartRemoveAndClear(t *testing.T) {
	carts := cart.NewRegistry()
	router := cartRouter(carts)

	add := `{"id":"p1","name":"Rice","image":"rice.jpg","unit_price":"45.50"}`
	doCart(t, router, http.MethodPost, "/api/cart/items", add)
	doCart(t, router, http.MethodPost, "/api/cart/items", add)

	_, data := doCart(t, router, http.MethodPost, "/api/cart/items/remove", `{"id":"p1"}`)
	assert.EqualValues(t, 1, data["total_items"])

	// Removing an absent id is a no-op, not an error.
	rec, data := doCart(t, router, http.MethodPost, "/api/cart/items/remove", `{"id":"ghost"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, data["total_items"])

	_, data = doCart(t, router, http.MethodPost, "/api/cart/clear", "")
	assert.EqualValues(t, 0, data["total_items"])
	assert.Equal(t, "0", data["subtotal"])
}

func TestCartsAreSessionScoped(t *testing.T) {
	carts := cart.NewRegistry()
	router := cartRouter(carts)

	doCart(t, router, http.MethodPost, "/api/cart/items", `{"id":"p1","name":"Rice","image":"rice.jpg","unit_price":"10"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req = req.WithContext(middleware.WithSessionID(req.Context(), "other-session"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.EqualValues(t, 0, envelope.Data["total_items"])
}
