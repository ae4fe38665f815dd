package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ravnkild/eira/internal"
	"github.com/ravnkild/eira/internal/cart"
	"github.com/ravnkild/eira/internal/catalog"
	"github.com/ravnkild/eira/internal/checkout"
	"github.com/ravnkild/eira/internal/gateway"
	"github.com/ravnkild/eira/internal/handler/storefront"
	"github.com/ravnkild/eira/internal/middleware"
	"github.com/ravnkild/eira/internal/router"
	"github.com/ravnkild/eira/internal/routes"
	"github.com/ravnkild/eira/internal/session"
	"github.com/ravnkild/eira/internal/telemetry"
)

func run() error {
	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize Sentry error tracking
	sentryCleanup, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:         cfg.Sentry.DSN,
		Enabled:     cfg.Sentry.Enabled,
		Environment: cfg.Sentry.Environment,
		Release:     cfg.Sentry.Release,
		SampleRate:  cfg.Sentry.SampleRate,
		Debug:       cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer sentryCleanup()

	// Business metrics (cart activity, checkout funnel, gateway latency)
	businessMetrics := telemetry.NewBusinessMetrics("eira")

	// Upstream clients
	catalogClient := catalog.NewClient(catalog.Config{
		BaseURL: cfg.Catalog.BaseURL,
		APIKey:  cfg.Catalog.APIKey,
		Timeout: cfg.Catalog.Timeout,
	}, logger)

	gatewayClient := gateway.NewClient(gateway.Config{
		BaseURL: cfg.Gateway.BaseURL,
		APIKey:  cfg.Gateway.APIKey,
		Timeout: cfg.Gateway.Timeout,
	}, logger)

	// Session manager; every new session gets its own cart and checkout flow
	redirectDelay := cfg.Checkout.RedirectDelay
	sessions := session.NewManager(func(store *cart.Store) *checkout.Flow {
		return checkout.NewFlow(checkout.Config{
			Cart:          store,
			Gateway:       gatewayClient,
			Logger:        logger,
			Metrics:       businessMetrics,
			RedirectDelay: redirectDelay,
		})
	}, cfg.Session.TTL, logger)
	defer sessions.Stop()

	// ==========================================================================
	// Build route dependencies
	// ==========================================================================

	httpMetrics := middleware.NewMetrics("eira")

	storefrontDeps := routes.StorefrontDeps{
		MenuHandler:     storefront.NewMenuHandler(catalogClient, sessions, businessMetrics, cfg.SecureCookies),
		CartHandler:     storefront.NewCartHandler(sessions, businessMetrics, cfg.SecureCookies),
		CheckoutHandler: storefront.NewCheckoutHandler(sessions, cfg.SecureCookies),
		MetricsHandler:  httpMetrics.Handler(),
	}

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	securityConfig := middleware.DefaultSecurityHeadersConfig()
	if cfg.Env == "dev" {
		securityConfig.HSTSMaxAge = 0 // Disable HSTS in development
	}

	chain := []router.Middleware{
		middleware.RequestID,
		middleware.WithRequestLogger(logger),
		middleware.Recover,
		httpMetrics.Middleware,
		middleware.SecurityHeaders(securityConfig),
	}
	if len(cfg.AllowedOrigins) > 0 {
		chain = append(chain, middleware.CORS(cfg.AllowedOrigins))
	}
	chain = append(chain,
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
		middleware.Timeout(middleware.DefaultTimeout),
		middleware.AccessLog,
	)

	r := router.New(chain...)

	routes.RegisterStorefrontRoutes(r, storefrontDeps)
	routes.RegisterOpsRoutes(r, storefrontDeps)

	// ==========================================================================
	// Start server
	// ==========================================================================

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting storefront server", "address", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		logger.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
