package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/grocemart/grocemart-backend/api/middleware"
	"github.com/grocemart/grocemart-backend/api/routes"
	"github.com/grocemart/grocemart-backend/internal/addresses"
	"github.com/grocemart/grocemart-backend/internal/cart"
	"github.com/grocemart/grocemart-backend/internal/checkout"
	"github.com/grocemart/grocemart-backend/internal/discounts"
	"github.com/grocemart/grocemart-backend/internal/orders"
	"github.com/grocemart/grocemart-backend/internal/products"
	"github.com/grocemart/grocemart-backend/internal/shipping"
	"github.com/grocemart/grocemart-backend/internal/stores"
	"github.com/grocemart/grocemart-backend/pkg/auth/session"
	"github.com/grocemart/grocemart-backend/pkg/config"
	"github.com/grocemart/grocemart-backend/pkg/db"
	"github.com/grocemart/grocemart-backend/pkg/geocache"
	"github.com/grocemart/grocemart-backend/pkg/logger"
	"github.com/grocemart/grocemart-backend/pkg/maps"
	"github.com/grocemart/grocemart-backend/pkg/migrate"
	"github.com/grocemart/grocemart-backend/pkg/outbox"
	"github.com/grocemart/grocemart-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	geoCache, err := geocache.New(redisClient, cfg.Geo.CacheTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create geo cache", err)
		os.Exit(1)
	}

	storeRepo := stores.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())
	discountRepo := discounts.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	addressRepo := addresses.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())
	checkoutRepo := checkout.NewRepository(dbClient.DB())
	outboxSvc := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	storeSvc, err := stores.NewService(storeRepo, geoCache, dbClient, outboxSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create store service", err)
		os.Exit(1)
	}
	productSvc, err := products.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}
	discountSvc, err := discounts.NewService(discountRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create discount service", err)
		os.Exit(1)
	}
	cartSvc, err := cart.NewService(cartRepo, productSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	var addressSvc addresses.Service
	if cfg.GoogleMaps.APIKey != "" {
		placesClient, err := maps.NewClient(cfg.GoogleMaps.APIKey)
		if err != nil {
			logg.Error(context.Background(), "failed to create maps client", err)
			os.Exit(1)
		}
		addressSvc, err = addresses.NewService(addressRepo, placesClient)
		if err != nil {
			logg.Error(context.Background(), "failed to create address service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "maps api key not configured, address suggestions disabled")
		addressSvc, err = addresses.NewService(addressRepo, nil)
		if err != nil {
			logg.Error(context.Background(), "failed to create address service", err)
			os.Exit(1)
		}
	}

	shippingSvc, err := shipping.NewService(logg, nil)
	if err != nil {
		logg.Error(context.Background(), "failed to create shipping service", err)
		os.Exit(1)
	}
	orderSvc, err := orders.NewService(orderRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}
	checkoutSvc, err := checkout.NewService(
		dbClient,
		checkoutRepo,
		cartSvc,
		cartRepo,
		discountSvc,
		addressSvc,
		orderRepo,
		productRepo,
		productRepo,
		outboxSvc,
		logg,
		cfg.Checkout,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	httpMetrics := middleware.NewHTTPMetrics(promRegistry)
	metricsHandler := promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})

	router := routes.NewRouter(
		cfg,
		logg,
		dbClient,
		redisClient,
		redisClient,
		redisClient,
		sessionManager,
		httpMetrics,
		metricsHandler,
		routes.Services{
			Stores:    storeSvc,
			Products:  productSvc,
			Discounts: discountSvc,
			Cart:      cartSvc,
			Addresses: addressSvc,
			Shipping:  shippingSvc,
			Checkout:  checkoutSvc,
			Orders:    orderSvc,
		},
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown error", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server shutting down gracefully")
}
