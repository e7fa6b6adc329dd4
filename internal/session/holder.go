package session

import (
	"context"
	"sync"
	"time"

	"github.com/calcuttafresh/storefront/internal/backend"
	"github.com/calcuttafresh/storefront/internal/cart"
	"github.com/calcuttafresh/storefront/pkg/auth"
	"github.com/calcuttafresh/storefront/pkg/config"
	pkgerrors "github.com/calcuttafresh/storefront/pkg/errors"
	"github.com/calcuttafresh/storefront/pkg/logger"
)

const defaultTokenTTL = 7 * 24 * time.Hour

// ProfileClient is the slice of the backend client the holder needs.
type ProfileClient interface {
	FetchProfile(ctx context.Context, token string) (*backend.Profile, error)
}

// Identity is the decoded user behind a session.
type Identity struct {
	UserID int64
	Phone  string
	Name   string
	Email  string
}

// Session is a settled per-client session. A nil Identity means the
// session is settled anonymous, which is distinct from "still loading".
type Session struct {
	ID       string
	Token    string
	Identity *Identity

	// expires is the token's embedded expiry; zero means no exp claim.
	expires time.Time
}

// Authenticated reports whether the session carries an identity.
func (s *Session) Authenticated() bool {
	return s != nil && s.Identity != nil
}

// Holder owns token persistence, identity decoding, and expiry
// enforcement for every client session the gateway has seen.
type Holder struct {
	mu       sync.Mutex
	settled  map[string]*Session
	resuming map[string]bool

	tokens   TokenStore
	profiles ProfileClient
	carts    *cart.Registry
	jwtCfg   config.JWTConfig
	logger   *logger.Logger
	tokenTTL time.Duration
	now      func() time.Time
}

// HolderOption configures optional holder behavior.
type HolderOption func(*Holder)

// WithClock overrides the holder's time source.
func WithClock(now func() time.Time) HolderOption {
	return func(h *Holder) {
		if now != nil {
			h.now = now
		}
	}
}

// WithTokenTTL overrides how long persisted tokens live in the store.
func WithTokenTTL(ttl time.Duration) HolderOption {
	return func(h *Holder) {
		if ttl > 0 {
			h.tokenTTL = ttl
		}
	}
}

func NewHolder(tokens TokenStore, profiles ProfileClient, carts *cart.Registry, jwtCfg config.JWTConfig, logg *logger.Logger, opts ...HolderOption) *Holder {
	holder := &Holder{
		settled:  map[string]*Session{},
		resuming: map[string]bool{},
		tokens:   tokens,
		profiles: profiles,
		carts:    carts,
		jwtCfg:   jwtCfg,
		logger:   logg,
		tokenTTL: defaultTokenTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(holder)
		}
	}
	return holder
}

// Loading reports whether the session's identity is still being
// resumed from the token store. Checkout must not report
// Unauthenticated while this is true.
func (h *Holder) Loading(sessionID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.resuming[sessionID]
}

// Resolve settles the session: returns the cached settled session, or
// resumes one from the persisted token. A token whose embedded expiry
// has passed forces a logout instead of being used. A token-store
// failure is returned as a retryable dependency error so callers never
// mistake "undetermined" for "unauthenticated".
func (h *Holder) Resolve(ctx context.Context, sessionID string) (*Session, error) {
	now := h.now()

	h.mu.Lock()
	if sess, ok := h.settled[sessionID]; ok {
		if !sess.expires.IsZero() && !sess.expires.After(now) {
			delete(h.settled, sessionID)
			h.mu.Unlock()
			h.forceLogout(ctx, sessionID, "token expired")
			return h.settleAnonymous(sessionID), nil
		}
		h.mu.Unlock()
		return sess, nil
	}
	h.resuming[sessionID] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.resuming, sessionID)
		h.mu.Unlock()
	}()

	token, err := h.tokens.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session state unavailable")
	}
	if token == "" {
		return h.settleAnonymous(sessionID), nil
	}

	claims, err := auth.DecodeToken(h.jwtCfg, token)
	if err != nil {
		h.forceLogout(ctx, sessionID, "stored token undecodable")
		return h.settleAnonymous(sessionID), nil
	}
	if claims.ExpiresBefore(now) {
		h.forceLogout(ctx, sessionID, "stored token expired")
		return h.settleAnonymous(sessionID), nil
	}

	sess := &Session{
		ID:    sessionID,
		Token: token,
		Identity: &Identity{
			UserID: claims.UserID,
			Phone:  claims.Phone,
		},
	}
	if claims.ExpiresAt != nil {
		sess.expires = claims.ExpiresAt.Time
	}
	h.settle(sess)
	return sess, nil
}

// Login persists the freshly granted token, decodes its claims, and
// fetches the full profile. A failed profile fetch degrades to logout.
func (h *Holder) Login(ctx context.Context, sessionID, token string) (*Session, error) {
	claims, err := auth.DecodeToken(h.jwtCfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthenticated, err, "invalid token")
	}
	if claims.ExpiresBefore(h.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthenticated, "token already expired")
	}

	if err := h.tokens.Save(ctx, sessionID, token, h.tokenTTL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist session token")
	}

	profile, err := h.profiles.FetchProfile(ctx, token)
	if err != nil {
		h.Logout(ctx, sessionID)
		return nil, err
	}

	sess := &Session{
		ID:    sessionID,
		Token: token,
		Identity: &Identity{
			UserID: profile.UserID,
			Phone:  profile.Phone,
			Name:   profile.Name,
			Email:  profile.Email,
		},
	}
	if claims.ExpiresAt != nil {
		sess.expires = claims.ExpiresAt.Time
	}
	h.settle(sess)
	return sess, nil
}

// Logout drops the persisted token, the settled identity, and the
// session's cart.
func (h *Holder) Logout(ctx context.Context, sessionID string) {
	if err := h.tokens.Drop(ctx, sessionID); err != nil && h.logger != nil {
		h.logger.Warn(h.logger.WithSessionID(ctx, sessionID), "failed to drop session token")
	}

	h.mu.Lock()
	delete(h.settled, sessionID)
	h.mu.Unlock()

	if h.carts != nil {
		h.carts.Drop(sessionID)
	}
}

func (h *Holder) forceLogout(ctx context.Context, sessionID, reason string) {
	if h.logger != nil {
		h.logger.Info(h.logger.WithFields(ctx, map[string]any{
			"session_id": sessionID,
			"reason":     reason,
		}), "forcing logout")
	}
	h.Logout(ctx, sessionID)
}

func (h *Holder) settle(sess *Session) {
	h.mu.Lock()
	h.settled[sess.ID] = sess
	h.mu.Unlock()
}

func (h *Holder) settleAnonymous(sessionID string) *Session {
	sess := &Session{ID: sessionID}
	h.settle(sess)
	return sess
}
