package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/calcuttafresh/storefront/api/controllers"
	"github.com/calcuttafresh/storefront/api/middleware"
	backendpkg "github.com/calcuttafresh/storefront/internal/backend"
	cartpkg "github.com/calcuttafresh/storefront/internal/cart"
	checkoutpkg "github.com/calcuttafresh/storefront/internal/checkout"
	sessionpkg "github.com/calcuttafresh/storefront/internal/session"
	"github.com/calcuttafresh/storefront/pkg/config"
	"github.com/calcuttafresh/storefront/pkg/logger"
	pkgredis "github.com/calcuttafresh/storefront/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *pkgredis.Client,
	backendClient *backendpkg.Client,
	carts *cartpkg.Registry,
	holder *sessionpkg.Holder,
	checkoutService *checkoutpkg.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()

	var (
		redisPinger   pkgredis.Pinger
		idemStore     pkgredis.IdempotencyStore
		otpLimitStore middleware.RateLimiterStore
	)
	if redisClient != nil {
		redisPinger = redisClient
		idemStore = redisClient
		otpLimitStore = redisClient
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisPinger))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Session(holder, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.OTPRateLimit(cfg.OTP, otpLimitStore, logg)).Post("/send-otp", controllers.OTPSend(backendClient, logg))
			r.Post("/verify-otp", controllers.OTPVerify(backendClient, holder, logg))
			r.Post("/logout", controllers.Logout(holder, logg))
		})

		r.Get("/session", controllers.SessionState(logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(carts, cfg.Checkout, logg))
			r.Post("/items", controllers.CartAdd(carts, cfg.Checkout, logg))
			r.Post("/items/remove", controllers.CartRemove(carts, cfg.Checkout, logg))
			r.Post("/clear", controllers.CartClear(carts, cfg.Checkout, logg))
		})

		r.Get("/slots", controllers.SlotList(backendClient, logg))
		r.Get("/delivery-dates", controllers.CheckoutDates())

		r.Route("/checkout", func(r chi.Router) {
			r.Use(middleware.Idempotency(idemStore, cfg.Checkout.IdempotencyTTL, logg))
			r.Post("/", controllers.CheckoutSubmit(checkoutService, logg))
			r.Post("/confirm", controllers.CheckoutConfirm(checkoutService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(logg))

			r.Get("/profile", controllers.Profile(backendClient, logg))

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", controllers.AddressList(backendClient, logg))
				r.Post("/", controllers.AddressCreate(backendClient, logg))
				r.Put("/{addressID}", controllers.AddressUpdate(backendClient, logg))
				r.Delete("/{addressID}", controllers.AddressDelete(backendClient, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderHistory(backendClient, logg))
				r.Get("/{orderID}", controllers.OrderFetch(backendClient, logg))
			})
		})
	})

	return r
}
