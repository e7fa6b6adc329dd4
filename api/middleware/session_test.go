package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calcuttafresh/storefront/internal/backend"
	"github.com/calcuttafresh/storefront/internal/cart"
	sessionpkg "github.com/calcuttafresh/storefront/internal/session"
	"github.com/calcuttafresh/storefront/pkg/config"
)

type nilProfiles struct{}

func (nilProfiles) FetchProfile(context.Context, string) (*backend.Profile, error) {
	return nil, nil
}

type downTokenStore struct{}

func (downTokenStore) Save(context.Context, string, string, time.Duration) error {
	return assertError{}
}
func (downTokenStore) Load(context.Context, string) (string, error) { return "", assertError{} }
func (downTokenStore) Drop(context.Context, string) error           { return nil }

type assertError struct{}

func (assertError) Error() string { return "store down" }

func newHolder(tokens sessionpkg.TokenStore) *sessionpkg.Holder {
	return sessionpkg.NewHolder(tokens, nilProfiles{}, cart.NewRegistry(), config.JWTConfig{}, nil)
}

func TestSessionMintsIDForNewClients(t *testing.T) {
	holder := newHolder(sessionpkg.NewMemoryTokenStore())

	var gotSessionID string
	var gotLoading bool
	handler := Session(holder, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSessionID = SessionIDFromContext(r.Context())
		gotLoading = SessionLoadingFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session", nil))

	require.NotEmpty(t, gotSessionID)
	assert.False(t, gotLoading)
	assert.Equal(t, gotSessionID, rec.Header().Get("X-Session-Id"))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "sf_session", cookies[0].Name)
	assert.Equal(t, gotSessionID, cookies[0].Value)
}

func TestSessionReusesProvidedID(t *testing.T) {
	holder := newHolder(sessionpkg.NewMemoryTokenStore())

	var gotSessionID string
	handler := Session(holder, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSessionID = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.Header.Set("X-Session-Id", "client-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "client-1", gotSessionID)
}

func TestSessionStoreFailureMarksLoading(t *testing.T) {
	holder := newHolder(downTokenStore{})

	var gotLoading bool
	var gotSession *sessionpkg.Session
	handler := Session(holder, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLoading = SessionLoadingFromContext(r.Context())
		gotSession = SessionFromContext(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/session", nil))

	assert.True(t, gotLoading, "unreachable token store must mark the session loading")
	assert.Nil(t, gotSession)
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	handler := RequireAuth(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	ctx := WithSession(context.Background(), &sessionpkg.Session{ID: "s1"})
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthDefersWhileLoading(t *testing.T) {
	handler := RequireAuth(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	ctx := WithSessionLoading(context.Background(), true)
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "loading must not read as unauthenticated")
}

func TestRequireAuthPassesAuthenticated(t *testing.T) {
	called := false
	handler := RequireAuth(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	sess := &sessionpkg.Session{ID: "s1", Token: "tok", Identity: &sessionpkg.Identity{UserID: 42}}
	ctx := WithSession(context.Background(), sess)
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil).WithContext(ctx)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, called)
}
