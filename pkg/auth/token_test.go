package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/calcuttafresh/storefront/pkg/config"
)

func mintToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()
	claims := IdentityClaims{
		UserID: 42,
		Phone:  "+919830012345",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return signed
}

func TestDecodeToken_Unverified(t *testing.T) {
	token := mintToken(t, "whatever", time.Now().Add(time.Hour))

	claims, err := DecodeToken(config.JWTConfig{}, token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user id 42, got %d", claims.UserID)
	}
	if claims.Phone != "+919830012345" {
		t.Fatalf("unexpected phone %q", claims.Phone)
	}
}

func TestDecodeToken_VerifiedRejectsBadSignature(t *testing.T) {
	token := mintToken(t, "wrong-secret", time.Now().Add(time.Hour))

	if _, err := DecodeToken(config.JWTConfig{Secret: "right-secret"}, token); err == nil {
		t.Fatal("expected signature verification failure")
	}
}

func TestDecodeToken_ExpiredStillDecodes(t *testing.T) {
	token := mintToken(t, "secret", time.Now().Add(-time.Hour))

	claims, err := DecodeToken(config.JWTConfig{Secret: "secret"}, token)
	if err != nil {
		t.Fatalf("expired token must still decode, got %v", err)
	}
	if !claims.ExpiresBefore(time.Now()) {
		t.Fatal("expected claims to report expiry in the past")
	}
}

func TestDecodeToken_Empty(t *testing.T) {
	if _, err := DecodeToken(config.JWTConfig{}, ""); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestExpiresBefore_NoExpClaim(t *testing.T) {
	claims := &IdentityClaims{}
	if claims.ExpiresBefore(time.Now()) {
		t.Fatal("tokens without exp never expire")
	}
}
