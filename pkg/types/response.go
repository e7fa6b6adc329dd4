// Package types holds the wire shapes shared across the gateway's
// HTTP surface.
package types

// SuccessEnvelope wraps every successful response body under "data".
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing error: a stable machine code, a
// message safe to show the shopper, and optional per-field details.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every error response body under "error".
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
