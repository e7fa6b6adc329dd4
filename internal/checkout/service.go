package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/calcuttafresh/storefront/internal/backend"
	"github.com/calcuttafresh/storefront/internal/cart"
	"github.com/calcuttafresh/storefront/pkg/config"
	pkgerrors "github.com/calcuttafresh/storefront/pkg/errors"
	"github.com/calcuttafresh/storefront/pkg/logger"
	"github.com/calcuttafresh/storefront/pkg/metrics"
)

// pendingDraftTTL bounds how long a prepaid draft waits for the hosted
// payment overlay to complete before it is discarded.
const pendingDraftTTL = 30 * time.Minute

// BackendClient is the slice of the backend the orchestrator calls.
type BackendClient interface {
	CreateOrder(ctx context.Context, token string, payload backend.OrderPayload) (*backend.OrderConfirmation, error)
	CreatePaymentOrder(ctx context.Context, amount string) (*backend.PaymentOrder, error)
}

// SessionView is what the orchestrator knows about the caller.
type SessionView struct {
	SessionID     string
	Token         string
	Loading       bool
	Authenticated bool
}

// ProviderCallback carries the hosted payment overlay's completion
// identifiers back to the gateway.
type ProviderCallback struct {
	PaymentOrderID string `json:"payment_order_id" validate:"required"`
	PaymentID      string `json:"payment_id"`
	Signature      string `json:"signature"`
}

// Result is the outcome of a submission or confirmation. When
// PaymentRequired is set the client must open the hosted payment
// overlay and come back through Confirm.
type Result struct {
	OrderID      string `json:"order_id,omitempty"`
	RedirectPath string `json:"redirect_path,omitempty"`

	PaymentRequired bool   `json:"payment_required,omitempty"`
	PaymentOrderID  string `json:"payment_order_id,omitempty"`
	Amount          string `json:"amount,omitempty"`
	Currency        string `json:"currency,omitempty"`
	KeyID           string `json:"key_id,omitempty"`
}

type pendingDraft struct {
	draft   OrderDraft
	created time.Time

	// confirming marks a draft whose order submission is in flight;
	// a second Confirm for the same payment order must not submit again.
	confirming bool
}

// Service gates order submission behind the validation pipeline and
// hands constructed drafts to the backend.
type Service struct {
	backend    BackendClient
	carts      *cart.Registry
	fee        decimal.Decimal
	cutoffHour int
	keyID      string
	logger     *logger.Logger
	metrics    *metrics.CheckoutMetrics
	now        func() time.Time

	mu      sync.Mutex
	pending map[string]pendingDraft
}

// ServiceOption configures optional service behavior.
type ServiceOption func(*Service)

// WithClock overrides the service's time source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMetrics wires checkout metrics.
func WithMetrics(m *metrics.CheckoutMetrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

func NewService(backendClient BackendClient, carts *cart.Registry, checkoutCfg config.CheckoutConfig, paymentsCfg config.PaymentsConfig, logg *logger.Logger, opts ...ServiceOption) *Service {
	service := &Service{
		backend:    backendClient,
		carts:      carts,
		fee:        decimal.NewFromInt(int64(checkoutCfg.DeliveryFee)),
		cutoffHour: checkoutCfg.CutoffHour,
		keyID:      paymentsCfg.KeyID,
		logger:     logg,
		now:        time.Now,
		pending:    map[string]pendingDraft{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(service)
		}
	}
	return service
}

// Submit runs the validation pipeline, builds the one-shot draft, and
// branches on payment method: cash on delivery goes straight to the
// backend, prepaid methods first mint a provider payment order and
// park the draft until the overlay's completion callback.
func (s *Service) Submit(ctx context.Context, sess SessionView, sel Selection) (*Result, error) {
	now := s.now()

	if err := validate(SessionState{Loading: sess.Loading, Authenticated: sess.Authenticated}, sel, now, s.cutoffHour); err != nil {
		s.count("validation_failed")
		return nil, err
	}

	store, ok := s.carts.Peek(sess.SessionID)
	if !ok || store.Snapshot().TotalItems() == 0 {
		s.count("validation_failed")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	draft := buildDraft(store.Snapshot(), sel, s.fee)

	if sel.PaymentMethod.Prepaid() {
		return s.startPrepaid(ctx, sess, draft)
	}
	return s.placeOrder(ctx, sess, draft)
}

// Confirm completes a prepaid submission after the hosted overlay
// reports success. The provider identifiers are accepted as-is.
func (s *Service) Confirm(ctx context.Context, sess SessionView, callback ProviderCallback) (*Result, error) {
	if sess.Loading {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "session not yet determined, retry shortly")
	}
	if !sess.Authenticated {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthenticated, "please sign in to place an order")
	}

	key := pendingKey(sess.SessionID, callback.PaymentOrderID)
	s.mu.Lock()
	entry, ok := s.pending[key]
	if ok && s.now().Sub(entry.created) > pendingDraftTTL {
		delete(s.pending, key)
		ok = false
	}
	if !ok {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no pending order for this payment")
	}
	if entry.confirming {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeIdempotency, "this payment is already being confirmed")
	}
	entry.confirming = true
	s.pending[key] = entry
	s.mu.Unlock()

	result, err := s.placeOrder(ctx, sess, entry.draft)
	if err != nil {
		// The draft stays parked so the client can retry.
		s.mu.Lock()
		if parked, still := s.pending[key]; still {
			parked.confirming = false
			s.pending[key] = parked
		}
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	delete(s.pending, key)
	s.mu.Unlock()
	return result, nil
}

func (s *Service) startPrepaid(ctx context.Context, sess SessionView, draft OrderDraft) (*Result, error) {
	amount := paymentAmount(draft)

	order, err := s.backend.CreatePaymentOrder(ctx, amount.String())
	if err != nil {
		s.count("payment_order_failed")
		return nil, err
	}

	key := pendingKey(sess.SessionID, order.OrderID)
	s.mu.Lock()
	s.prunePendingLocked()
	s.pending[key] = pendingDraft{draft: draft, created: s.now()}
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info(s.logger.WithFields(ctx, map[string]any{
			"payment_order_id": order.OrderID,
			"amount":           amount.String(),
		}), "payment order created")
	}

	return &Result{
		PaymentRequired: true,
		PaymentOrderID:  order.OrderID,
		Amount:          amount.String(),
		Currency:        order.Currency,
		KeyID:           s.keyID,
	}, nil
}

func (s *Service) placeOrder(ctx context.Context, sess SessionView, draft OrderDraft) (*Result, error) {
	confirmation, err := s.backend.CreateOrder(ctx, sess.Token, draft.payload())
	if err != nil {
		s.count("order_failed")
		return nil, err
	}

	if store, ok := s.carts.Peek(sess.SessionID); ok {
		store.Clear()
	}
	s.count("success")

	orderID := confirmation.OrderID.String()
	if s.logger != nil {
		s.logger.Info(s.logger.WithFields(ctx, map[string]any{
			"order_id":       orderID,
			"total_price":    draft.TotalPrice.String(),
			"payment_method": string(draft.PaymentMethod),
		}), "order placed")
	}

	return &Result{
		OrderID:      orderID,
		RedirectPath: fmt.Sprintf("/orders/success?order_id=%s", orderID),
	}, nil
}

func (s *Service) prunePendingLocked() {
	cutoff := s.now().Add(-pendingDraftTTL)
	for key, entry := range s.pending {
		if entry.created.Before(cutoff) {
			delete(s.pending, key)
		}
	}
}

func (s *Service) count(result string) {
	if s.metrics != nil {
		s.metrics.IncSubmission(result)
	}
}

func pendingKey(sessionID, paymentOrderID string) string {
	return sessionID + "|" + paymentOrderID
}
