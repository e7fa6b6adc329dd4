package controllers

import (
	"net/http"

	"github.com/calcuttafresh/storefront/api/middleware"
	"github.com/calcuttafresh/storefront/api/responses"
	"github.com/calcuttafresh/storefront/api/validators"
	backendpkg "github.com/calcuttafresh/storefront/internal/backend"
	sessionpkg "github.com/calcuttafresh/storefront/internal/session"
	pkgerrors "github.com/calcuttafresh/storefront/pkg/errors"
	"github.com/calcuttafresh/storefront/pkg/logger"
)

type otpSendRequest struct {
	Phone string `json:"phone,omitempty" validate:"required_without=Email"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

type otpVerifyRequest struct {
	Phone string `json:"phone,omitempty" validate:"required_without=Email"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	OTP   string `json:"otp" validate:"required"`
}

type sessionUserView struct {
	UserID int64  `json:"user_id"`
	Phone  string `json:"phone,omitempty"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
}

type sessionStateView struct {
	Loading       bool             `json:"loading"`
	Authenticated bool             `json:"authenticated"`
	User          *sessionUserView `json:"user,omitempty"`
}

// OTPSend asks the backend to dispatch a one-time password.
func OTPSend(client *backendpkg.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload otpSendRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := client.SendOTP(r.Context(), backendpkg.OTPRequest{Phone: payload.Phone, Email: payload.Email}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "sent"})
	}
}

// OTPVerify exchanges the code for a backend token and logs the
// session in.
func OTPVerify(client *backendpkg.Client, holder *sessionpkg.Holder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		var payload otpVerifyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		grant, err := client.VerifyOTP(r.Context(), backendpkg.OTPVerification{
			Phone: payload.Phone,
			Email: payload.Email,
			OTP:   payload.OTP,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := holder.Login(r.Context(), sessionID, grant.Token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sessionStateView{
			Authenticated: true,
			User:          newSessionUserView(sess),
		})
	}
}

// Logout drops the token, the identity, and the cart.
func Logout(holder *sessionpkg.Holder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		holder.Logout(r.Context(), sessionID)
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// SessionState reports whether the caller is signed in. Anonymous and
// still-loading are distinct states.
func SessionState(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if middleware.SessionLoadingFromContext(ctx) {
			responses.WriteSuccess(w, sessionStateView{Loading: true})
			return
		}

		sess := middleware.SessionFromContext(ctx)
		if !sess.Authenticated() {
			responses.WriteSuccess(w, sessionStateView{})
			return
		}

		responses.WriteSuccess(w, sessionStateView{
			Authenticated: true,
			User:          newSessionUserView(sess),
		})
	}
}

// Profile fetches the fresh backend profile for the signed-in user.
func Profile(client *backendpkg.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())

		profile, err := client.FetchProfile(r.Context(), sess.Token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

func newSessionUserView(sess *sessionpkg.Session) *sessionUserView {
	if !sess.Authenticated() {
		return nil
	}
	return &sessionUserView{
		UserID: sess.Identity.UserID,
		Phone:  sess.Identity.Phone,
		Name:   sess.Identity.Name,
		Email:  sess.Identity.Email,
	}
}
