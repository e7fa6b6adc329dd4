package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims is the payload the grocery backend embeds in the tokens
// it mints on OTP verification.
type IdentityClaims struct {
	UserID int64  `json:"userId"`
	Phone  string `json:"phone"`
	jwt.RegisteredClaims
}

// ExpiresBefore reports whether the token's embedded expiry is at or
// before the given instant. Tokens without an exp claim never expire.
func (c *IdentityClaims) ExpiresBefore(now time.Time) bool {
	if c == nil || c.ExpiresAt == nil {
		return false
	}
	return !c.ExpiresAt.Time.After(now)
}
