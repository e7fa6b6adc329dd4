package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/calcuttafresh/storefront/api/responses"
	sessionpkg "github.com/calcuttafresh/storefront/internal/session"
	pkgerrors "github.com/calcuttafresh/storefront/pkg/errors"
	"github.com/calcuttafresh/storefront/pkg/logger"
)

const (
	sessionHeader = "X-Session-Id"
	sessionCookie = "sf_session"
)

// Session identifies the client session and resolves its identity
// through the holder. A brand-new client gets a minted session id back
// in both the response header and a cookie. When the token store is
// unreachable the request proceeds with the loading flag set so
// downstream handlers can defer instead of misreporting
// "unauthenticated".
func Session(holder *sessionpkg.Holder, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := sessionIDFromRequest(r)
			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			w.Header().Set(sessionHeader, sessionID)
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    sessionID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			sess, err := holder.Resolve(ctx, sessionID)
			if err != nil {
				if logg != nil {
					logg.Warn(ctx, "session resolution deferred")
				}
				ctx = WithSessionLoading(ctx, true)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			ctx = WithSession(ctx, sess)
			if sess.Authenticated() && logg != nil {
				ctx = logg.WithUserID(ctx, strconv.FormatInt(sess.Identity.UserID, 10))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth guards identity-scoped routes. An undetermined session
// yields a retryable dependency error, never Unauthenticated.
func RequireAuth(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if SessionLoadingFromContext(ctx) {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "session not yet determined, retry shortly"))
				return
			}
			sess := SessionFromContext(ctx)
			if !sess.Authenticated() {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthenticated, "please log in to continue"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sessionIDFromRequest(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(sessionHeader)); id != "" {
		return id
	}
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}
