package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}

	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected Redis URL: %q", cfg.Redis.URL)
	}

	if cfg.Backend.Timeout != 10*time.Second {
		t.Fatalf("expected backend timeout 10s, got %v", cfg.Backend.Timeout)
	}

	if cfg.Checkout.DeliveryFee != 30 {
		t.Fatalf("expected default delivery fee 30, got %d", cfg.Checkout.DeliveryFee)
	}

	if cfg.Checkout.CutoffHour != 9 {
		t.Fatalf("expected default cutoff hour 9, got %d", cfg.Checkout.CutoffHour)
	}

	if cfg.Payments.Currency != "INR" {
		t.Fatalf("expected default currency INR, got %q", cfg.Payments.Currency)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected error when required env vars are missing")
	}
}

func TestLoad_InvalidCutoffHour(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("STOREFRONT_CHECKOUT_CUTOFF_HOUR", "24")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for out-of-range cutoff hour")
	}
}

func TestJWTConfig_Verifies(t *testing.T) {
	if (JWTConfig{}).Verifies() {
		t.Fatal("empty secret should not verify")
	}
	if !(JWTConfig{Secret: "shared"}).Verifies() {
		t.Fatal("non-empty secret should verify")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvAppEnv, "production")
	t.Setenv("STOREFRONT_APP_PORT", "8080")
	t.Setenv("STOREFRONT_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("STOREFRONT_BACKEND_BASE_URL", "http://localhost:5000")
}
