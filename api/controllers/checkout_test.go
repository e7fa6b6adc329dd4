package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calcuttafresh/storefront/api/middleware"
	"github.com/calcuttafresh/storefront/internal/backend"
	"github.com/calcuttafresh/storefront/internal/cart"
	checkoutpkg "github.com/calcuttafresh/storefront/internal/checkout"
	sessionpkg "github.com/calcuttafresh/storefront/internal/session"
	"github.com/calcuttafresh/storefront/pkg/config"
)

type gatewayFixture struct {
	router  http.Handler
	carts   *cart.Registry
	backend *httptest.Server
}

// fakeGroceryBackend imitates the upstream REST API.
func fakeGroceryBackend(t *testing.T, orderStatus int, orderBody string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(orderStatus)
		w.Write([]byte(orderBody))
	})
	mux.HandleFunc("/api/payments/create-order", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"order_id":"pay_1","amount":260,"currency":"INR"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newGatewayFixture(t *testing.T, now time.Time, orderStatus int, orderBody string) *gatewayFixture {
	t.Helper()

	server := fakeGroceryBackend(t, orderStatus, orderBody)
	client, err := backend.NewClient(config.BackendConfig{BaseURL: server.URL}, nil)
	require.NoError(t, err)

	carts := cart.NewRegistry()
	tokens := sessionpkg.NewMemoryTokenStore()

	claims := jwt.MapClaims{"userId": int64(42), "phone": "9830012345", "exp": now.Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	require.NoError(t, tokens.Save(context.Background(), "s1", token, 0))

	holder := sessionpkg.NewHolder(tokens, client, carts, config.JWTConfig{}, nil,
		sessionpkg.WithClock(func() time.Time { return now }))

	service := checkoutpkg.NewService(client, carts,
		config.CheckoutConfig{DeliveryFee: 30, CutoffHour: 9},
		config.PaymentsConfig{KeyID: "rzp_test_key", Currency: "INR"},
		nil,
		checkoutpkg.WithClock(func() time.Time { return now }))

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Session(holder, nil))
		r.Post("/checkout", CheckoutSubmit(service, nil))
		r.Post("/checkout/confirm", CheckoutConfirm(service, nil))
	})

	return &gatewayFixture{router: r, carts: carts, backend: server}
}

func (f *gatewayFixture) submit(t *testing.T, sessionID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body))
	req.Header.Set("X-Session-Id", sessionID)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func newDecimal(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func seedCart(carts *cart.Registry, sessionID string) {
	item := cart.Item{ID: "p1", Name: "Rice", Image: "rice.jpg", UnitPrice: newDecimal("100")}
	store := carts.Get(sessionID)
	store.Add(item)
	store.Add(item)
}

func TestCheckoutSubmitCOD(t *testing.T) {
	now := time.Date(2026, 9, 3, 10, 0, 0, 0, time.Local)
	fixture := newGatewayFixture(t, now, http.StatusCreated, `{"order_id":4211}`)
	seedCart(fixture.carts, "s1")

	rec := fixture.submit(t, "s1", `{"address_id":7,"slot_id":2,"delivery_date":"2026-09-05","payment_method":"COD"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope struct {
		Data checkoutpkg.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "4211", envelope.Data.OrderID)
	assert.Equal(t, "/orders/success?order_id=4211", envelope.Data.RedirectPath)
	assert.Equal(t, 0, fixture.carts.Get("s1").Snapshot().TotalItems())
}

func TestCheckoutSubmitAnonymous(t *testing.T) {
	now := time.Date(2026, 9, 3, 10, 0, 0, 0, time.Local)
	fixture := newGatewayFixture(t, now, http.StatusCreated, `{"order_id":1}`)
	seedCart(fixture.carts, "anon")

	rec := fixture.submit(t, "anon", `{"address_id":7,"slot_id":2,"delivery_date":"2026-09-05"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckoutSubmitBackendRejection(t *testing.T) {
	now := time.Date(2026, 9, 3, 10, 0, 0, 0, time.Local)
	fixture := newGatewayFixture(t, now, http.StatusBadRequest, `{"error":"Out of stock: Basmati Rice"}`)
	seedCart(fixture.carts, "s1")

	rec := fixture.submit(t, "s1", `{"address_id":7,"slot_id":2,"delivery_date":"2026-09-05","payment_method":"COD"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Out of stock: Basmati Rice")
	assert.Equal(t, 2, fixture.carts.Get("s1").Snapshot().TotalItems(), "cart must survive a failed placement")
}

func TestCheckoutSubmitCutoff(t *testing.T) {
	now := time.Date(2026, 9, 3, 9, 0, 0, 0, time.Local)
	fixture := newGatewayFixture(t, now, http.StatusCreated, `{"order_id":1}`)
	seedCart(fixture.carts, "s1")

	rec := fixture.submit(t, "s1", `{"address_id":7,"slot_id":2,"delivery_date":"2026-09-03","payment_method":"COD"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "CUTOFF_EXCEEDED")
}

func TestCheckoutPrepaidRoundTrip(t *testing.T) {
	now := time.Date(2026, 9, 3, 10, 0, 0, 0, time.Local)
	fixture := newGatewayFixture(t, now, http.StatusCreated, `{"order_id":4212}`)
	seedCart(fixture.carts, "s1")

	rec := fixture.submit(t, "s1", `{"address_id":7,"slot_id":2,"delivery_date":"2026-09-05","payment_method":"UPI"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope struct {
		Data checkoutpkg.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Data.PaymentRequired)
	assert.Equal(t, "pay_1", envelope.Data.PaymentOrderID)
	assert.Equal(t, "260", envelope.Data.Amount)
	assert.Equal(t, 2, fixture.carts.Get("s1").Snapshot().TotalItems())

	req := httptest.NewRequest(http.MethodPost, "/api/checkout/confirm", strings.NewReader(`{"payment_order_id":"pay_1","payment_id":"p_9","signature":"sig"}`))
	req.Header.Set("X-Session-Id", "s1")
	confirmRec := httptest.NewRecorder()
	fixture.router.ServeHTTP(confirmRec, req)
	require.Equal(t, http.StatusOK, confirmRec.Code, confirmRec.Body.String())

	var confirmed struct {
		Data checkoutpkg.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(confirmRec.Body.Bytes(), &confirmed))
	assert.Equal(t, "4212", confirmed.Data.OrderID)
	assert.Equal(t, 0, fixture.carts.Get("s1").Snapshot().TotalItems())
}
