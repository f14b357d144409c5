package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/cache"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/config"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/fulfillment"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/health"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/metrics"
	repository "github.com/aaravmahajanofficial/artisan-storefront/internal/repositories"
	service "github.com/aaravmahajanofficial/artisan-storefront/internal/services"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/session"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/telemetry"
	razorpayClient "github.com/aaravmahajanofficial/artisan-storefront/pkg/razorpay"
	"github.com/aaravmahajanofficial/artisan-storefront/pkg/sendgrid"
	stripeClient "github.com/aaravmahajanofficial/artisan-storefront/pkg/stripe"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	shutdownTracer, err := telemetry.SetupTracer(context.Background(), cfg.Env, cfg.Otel)
	if err != nil {
		slog.Error("❌ Error setting up tracing", slog.Any("error", err))
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.Any("error", err))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.Any("error", err))
		os.Exit(1)
	}

	redisCache := cache.NewRedisCache(redisClient, &cfg.Cache)
	defer redisCache.Close()

	rateLimiter := repository.NewRateLimitRepo(redisClient, &cfg.RateConfig)
	sessions := session.NewProvider(session.NewRedisStore(redisClient))

	// Fulfillment handoff
	var publisher fulfillment.Publisher = fulfillment.NoopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		pool, err := fulfillment.NewChannelPool(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, cfg.RabbitMQ.PoolSize)
		if err != nil {
			slog.Error("❌ Error connecting to RabbitMQ", slog.Any("error", err))
			os.Exit(1)
		}
		publisher = fulfillment.NewPublisher(pool, cfg.RabbitMQ.Queue)
	} else {
		slog.Warn("RabbitMQ not configured, order.paid events are not published")
	}
	defer publisher.Close()

	var mailer fulfillment.Mailer
	if cfg.SendGrid.APIKey != "" {
		mailer = fulfillment.NewConfirmationMailer(sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName))
	}

	handoff := fulfillment.NewHandoff(publisher, mailer)

	// Payment gateways
	var gateways []service.Gateway
	if cfg.Razorpay.KeyID != "" {
		gateways = append(gateways, service.NewRazorpayGateway(razorpayClient.NewRazorpayClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)))
	}

	var webhooks stripeClient.Client
	if cfg.Stripe.APIKey != "" {
		webhooks = stripeClient.NewStripeClient(cfg.Stripe.APIKey, cfg.Stripe.WebhookSecret)
		gateways = append(gateways, service.NewStripeGateway(webhooks))
	}

	// Services
	catalogService := service.NewCatalogService(repos.Products, redisCache, cfg.Cache.DefaultTTL)
	cartService := service.NewCartService(repos.Carts, catalogService, redisCache, cfg.Cache.CartTTL)
	couponService := service.NewCouponService(repos.Coupons, rateLimiter, redisCache, cfg.Cache.DefaultTTL)
	pricingService := service.NewPricingService(catalogService)

	paymentService, err := service.NewPaymentService(repos.Orders, cartService, handoff, cfg.Payment, webhooks, gateways...)
	if err != nil {
		slog.Error("❌ Error configuring payments", slog.Any("error", err))
		os.Exit(1)
	}

	adminService := service.NewAdminService(cfg.Security, rateLimiter)
	orderService := service.NewOrderService(repos.Orders, cartService, catalogService, couponService, paymentService, cfg.Orders.NumberPrefix)

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error setting up health checks", slog.Any("error", err))
		os.Exit(1)
	}

	// Handlers
	sessionHandler := handlers.NewSessionHandler()
	cartHandler := handlers.NewCartHandler(cartService, pricingService, couponService)
	couponHandler := handlers.NewCouponHandler(couponService)
	checkoutHandler := handlers.NewCheckoutHandler(orderService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	orderHandler := handlers.NewOrderHandler(orderService, paymentService)
	productHandler := handlers.NewProductHandler(catalogService)
	adminHandler := handlers.NewAdminHandler(adminService)
	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.Security.JWTKey))

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Storefront routes run inside a session
	storefront := http.NewServeMux()
	storefront.HandleFunc("GET /api/v1/session", sessionHandler.GetSession())
	storefront.HandleFunc("GET /api/v1/cart", cartHandler.GetCart())
	storefront.HandleFunc("POST /api/v1/cart/items", cartHandler.AddItem())
	storefront.HandleFunc("PUT /api/v1/cart/items", cartHandler.UpdateItem())
	storefront.HandleFunc("DELETE /api/v1/cart/items", cartHandler.RemoveItem())
	storefront.HandleFunc("DELETE /api/v1/cart", cartHandler.ClearCart())
	storefront.HandleFunc("POST /api/v1/coupons/validate", couponHandler.ValidateCoupon())
	storefront.HandleFunc("POST /api/v1/checkout", checkoutHandler.Checkout())
	storefront.HandleFunc("GET /api/v1/orders/{id}", orderHandler.GetOrder())
	storefront.HandleFunc("POST /api/v1/orders/{id}/payment/retry", orderHandler.RetryPayment())
	storefront.HandleFunc("POST /api/v1/orders/{id}/payment/failure", orderHandler.ReportPaymentFailure())
	storefront.HandleFunc("POST /api/v1/orders/{id}/payment/abandon", orderHandler.AbandonPayment())

	routerMux := http.NewServeMux()
	routerMux.Handle("/api/", session.Middleware(sessions)(storefront))
	routerMux.HandleFunc("GET /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("GET /api/v1/categories", productHandler.ListCategories())
	routerMux.HandleFunc("POST /api/v1/payments/verify", paymentHandler.VerifyPayment())
	routerMux.HandleFunc("GET /api/v1/payments/capabilities", paymentHandler.Capabilities())
	routerMux.HandleFunc("POST /api/v1/payments/webhook", paymentHandler.StripeWebhook())
	routerMux.HandleFunc("POST /api/v1/admin/login", adminHandler.Login())
	routerMux.HandleFunc("GET /api/v1/admin/orders", authMiddleware.Authenticate(orderHandler.ListOrders()))
	routerMux.HandleFunc("PATCH /api/v1/admin/orders/{id}/status", authMiddleware.Authenticate(orderHandler.UpdateOrderStatus()))
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "artisan-storefront")

	// Setup http server
	server := http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("❌ Failed to start server", slog.Any("error", err))
			done <- syscall.SIGTERM
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.Any("error", err))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracer(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracer shutdown encountered an issue", slog.Any("error", err))
	}

	if err := redisClient.Close(); err != nil {
		slog.Error("⚠️ Error closing redis connection", slog.Any("error", err))
	}
}
