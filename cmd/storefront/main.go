package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/aaravmahajanofficial/storefront-checkout/docs"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/cache"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/config"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/health"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/lock"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/metrics"
	repository "github.com/aaravmahajanofficial/storefront-checkout/internal/repositories"
	service "github.com/aaravmahajanofficial/storefront-checkout/internal/services"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/telemetry"
	"github.com/aaravmahajanofficial/storefront-checkout/pkg/sendgrid"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//	@title						Storefront Checkout API
//	@version					1.0
//	@description				Cart, order placement and order status service.
//	@host						localhost:8080
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	shutdownTracing, err := telemetry.Setup(context.Background(), cfg.Otel)
	if err != nil {
		slog.Error("❌ Error setting up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer redisClient.Close()

	var locker lock.Locker = lock.NewLocalLocker()
	if cfg.Checkout.UseRedisLocks {
		locker = lock.NewRedisLocker(redisClient, cfg.Checkout.LockTTL)
	}

	orderCache := cache.NewRedisCache(redisClient, &cfg.Cache)
	rateLimiter := repository.NewRateLimitRepository(redisClient, cfg.RateConfig)

	jwtKey := []byte(cfg.Security.JWTKey)
	sendGridClient := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	notificationService := service.NewNotificationService(repos.Notification, sendGridClient)
	dispatcher := service.NewNotificationDispatcher(notificationService, cfg.Checkout)

	cartService := service.NewCartService(repos.Cart, locker)
	cartHandler := handlers.NewCartHandler(cartService)
	orderService := service.NewOrderService(repos.Order, repos.Account, repos.Inventory, cartService, dispatcher, locker, orderCache, cfg)
	orderHandler := handlers.NewOrderHandler(orderService)
	accountService := service.NewAccountService(repos.Account, cfg.Checkout.PaymentMethods)
	accountHandler := handlers.NewAccountHandler(accountService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey)

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error creating health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	checkoutLimit := middleware.CheckoutRateLimit(rateLimiter)

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/cart/{accountId}", authMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/cart/upsert", authMiddleware.Authenticate(cartHandler.UpsertLine()))
	routerMux.HandleFunc("DELETE /api/v1/cart/{accountId}/item/{productId}", authMiddleware.Authenticate(cartHandler.RemoveLine()))
	routerMux.HandleFunc("POST /api/v1/cart/{accountId}/clear", authMiddleware.Authenticate(cartHandler.Clear()))
	routerMux.HandleFunc("POST /api/v1/orders", authMiddleware.Authenticate(checkoutLimit(orderHandler.PlaceOrder())))
	routerMux.HandleFunc("GET /api/v1/orders/{orderId}", authMiddleware.Authenticate(orderHandler.GetOrder()))
	routerMux.HandleFunc("GET /api/v1/orders", authMiddleware.RequireStaff(orderHandler.ListOrders()))
	routerMux.HandleFunc("PATCH /api/v1/orders/{orderId}/status", authMiddleware.RequireStaff(orderHandler.UpdateOrderStatus()))
	routerMux.HandleFunc("GET /api/v1/accounts/{accountId}/orders", authMiddleware.Authenticate(orderHandler.ListAccountOrders()))
	routerMux.HandleFunc("PUT /api/v1/accounts/{accountId}/shipping-address", authMiddleware.Authenticate(accountHandler.UpdateShippingAddress()))
	routerMux.HandleFunc("PUT /api/v1/accounts/{accountId}/payment-method", authMiddleware.Authenticate(accountHandler.UpdatePaymentMethod()))
	routerMux.HandleFunc("GET /api/v1/notifications", authMiddleware.RequireStaff(notificationHandler.ListNotifications()))
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "storefront-checkout")

	// Setup http server
	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("❌ Failed to start server", slog.String("error", err.Error()))
			done <- syscall.SIGTERM
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	// In-flight confirmations are flushed after the last request has finished.
	if err := dispatcher.Close(shutdownCtx); err != nil {
		slog.Error("⚠️ Pending order confirmations were dropped", slog.String("error", err.Error()))
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Error flushing traces", slog.String("error", err.Error()))
	}
}
