package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "STOREFRONT_APP_ENV"
)

type Config struct {
	App      AppConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Backend  BackendConfig
	Payments PaymentsConfig
	Checkout CheckoutConfig
	OTP      OTPRateLimitConfig
	CORS     CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig controls how backend-issued bearer tokens are read. The
// grocery backend mints the tokens; when it shares its HS256 secret the
// gateway verifies signatures, otherwise claims are decoded without
// signature verification and only expiry is enforced.
type JWTConfig struct {
	Secret string `envconfig:"STOREFRONT_JWT_SECRET"`
	Issuer string `envconfig:"STOREFRONT_JWT_ISSUER"`
}

func (j JWTConfig) Verifies() bool {
	return strings.TrimSpace(j.Secret) != ""
}

type BackendConfig struct {
	BaseURL string        `envconfig:"STOREFRONT_BACKEND_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"STOREFRONT_BACKEND_TIMEOUT" default:"10s"`
}

type PaymentsConfig struct {
	// KeyID is the publishable provider key handed to the web client so
	// it can open the hosted checkout overlay.
	KeyID    string `envconfig:"STOREFRONT_PAYMENTS_KEY_ID"`
	Currency string `envconfig:"STOREFRONT_PAYMENTS_CURRENCY" default:"INR"`
}

type CheckoutConfig struct {
	DeliveryFee    int           `envconfig:"STOREFRONT_CHECKOUT_DELIVERY_FEE" default:"30"`
	CutoffHour     int           `envconfig:"STOREFRONT_CHECKOUT_CUTOFF_HOUR" default:"9"`
	IdempotencyTTL time.Duration `envconfig:"STOREFRONT_CHECKOUT_IDEMPOTENCY_TTL" default:"168h"`
}

func (c CheckoutConfig) validate() error {
	if c.DeliveryFee < 0 {
		return fmt.Errorf("checkout delivery fee must not be negative")
	}
	if c.CutoffHour < 0 || c.CutoffHour > 23 {
		return fmt.Errorf("checkout cutoff hour must be within 0-23")
	}
	return nil
}

type OTPRateLimitConfig struct {
	SendWindow time.Duration `envconfig:"STOREFRONT_OTP_SEND_WINDOW" default:"1m"`
	SendLimit  int           `envconfig:"STOREFRONT_OTP_SEND_LIMIT" default:"5"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}
