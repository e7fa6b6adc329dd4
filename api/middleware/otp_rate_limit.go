package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/calcuttafresh/storefront/api/responses"
	"github.com/calcuttafresh/storefront/pkg/config"
	pkgerrors "github.com/calcuttafresh/storefront/pkg/errors"
	"github.com/calcuttafresh/storefront/pkg/logger"
)

// RateLimiterStore is the counter surface rate limiting needs.
type RateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// OTPRateLimit throttles OTP dispatch per client IP and per hashed
// destination so one phone number cannot be carpet-bombed with codes.
func OTPRateLimit(cfg config.OTPRateLimitConfig, store RateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if cfg.SendWindow <= 0 || cfg.SendLimit <= 0 || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := clientIP(r)
			if ip != "" {
				key := fmt.Sprintf("rl:otp:ip:%s", ip)
				if allowed, err := allow(ctx, store, key, cfg.SendWindow, int64(cfg.SendLimit)); err != nil {
					responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				} else if !allowed {
					respondRateLimited(ctx, logg, w, "ip", ip)
					return
				}
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			if target := extractTarget(body); target != "" {
				hash := hashValue(target)
				key := fmt.Sprintf("rl:otp:target:%s", hash)
				if allowed, err := allow(ctx, store, key, cfg.SendWindow, int64(cfg.SendLimit)); err != nil {
					responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				} else if !allowed {
					respondRateLimited(ctx, logg, w, "target", hash)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func allow(ctx context.Context, store RateLimiterStore, key string, window time.Duration, limit int64) (bool, error) {
	count, err := store.IncrWithTTL(ctx, key, window)
	if err != nil {
		return false, err
	}
	return count <= limit, nil
}

func respondRateLimited(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, dimension, subject string) {
	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"dimension": dimension,
			"subject":   subject,
		})
		logg.Warn(ctx, "otp send rate limited")
	}
	responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many OTP requests, try again shortly"))
}

func extractTarget(body []byte) string {
	var payload struct {
		Phone string `json:"phone"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if phone := strings.TrimSpace(payload.Phone); phone != "" {
		return phone
	}
	return strings.ToLower(strings.TrimSpace(payload.Email))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
