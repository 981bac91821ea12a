package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/storefront/api/routes"
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/editor"
	"github.com/angelmondragon/storefront/internal/locks"
	product "github.com/angelmondragon/storefront/internal/products"
	"github.com/angelmondragon/storefront/internal/variants"
	"github.com/angelmondragon/storefront/internal/wishlist"
	"github.com/angelmondragon/storefront/pkg/commerce"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/env"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/migrate"
	"github.com/angelmondragon/storefront/pkg/redis"
)

const submitLockScope = "variant_submit"

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

	productService, err := product.NewService(product.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}
	variantService, err := variants.NewService(variants.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create variant service", err)
		os.Exit(1)
	}

	catalogService, err := buildCatalog(cfg, logg, productService, variantService)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog", err)
		os.Exit(1)
	}

	executor, err := variants.NewExecutor(variants.ExecutorParams{
		Persister:   catalogService,
		Logger:      logg,
		Metrics:     metrics.NewVariantBatchMetrics(prometheus.DefaultRegisterer),
		Concurrency: cfg.Variants.BatchConcurrency,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create variant executor", err)
		os.Exit(1)
	}

	submitLocks, err := locks.NewKeyed(redisClient, submitLockScope, cfg.Variants.SubmitLockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create submit locks", err)
		os.Exit(1)
	}

	editorService, err := editor.NewService(editor.ServiceParams{
		Catalog:    catalogService,
		Executor:   executor,
		Locker:     submitLocks,
		Logger:     logg,
		MaxOptions: cfg.Variants.MaxOptions,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create variant editor", err)
		os.Exit(1)
	}

	cartStore, err := cart.NewStore(redisClient, cfg.Cart.TTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cart.ServiceParams{
		Store:   cartStore,
		Catalog: catalogService,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		Store:    redisClient,
		Products: catalogService,
		TTL:      cfg.Cart.TTL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": env.InstanceID(),
		"remote":   cfg.Commerce.Remote(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			redisClient,
			prometheus.DefaultGatherer,
			productService,
			variantService,
			catalogService,
			editorService,
			cartService,
			wishlistService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// buildCatalog picks the remote commerce API when one is configured and this
// service's own tables otherwise.
func buildCatalog(cfg *config.Config, logg *logger.Logger, products product.Service, variantSvc variants.Service) (catalog.Catalog, error) {
	if !cfg.Commerce.Remote() {
		local, err := catalog.NewLocal(products, variantSvc)
		if err != nil {
			return nil, err
		}
		return local, nil
	}

	client, err := commerce.NewClient(
		cfg.Commerce.BaseURL,
		commerce.WithAPIKey(cfg.Commerce.APIKey),
		commerce.WithHTTPClient(&http.Client{Timeout: cfg.Commerce.Timeout}),
	)
	if err != nil {
		return nil, err
	}
	logg.Info(logg.WithField(context.Background(), "base_url", cfg.Commerce.BaseURL), "using remote commerce api")
	remote, err := catalog.NewRemote(client)
	if err != nil {
		return nil, err
	}
	return remote, nil
}
