package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/events"
	"storefront/internal/httpserver"
	"storefront/internal/pricing"
	addressrepo "storefront/internal/repository/address"
	cartrepo "storefront/internal/repository/cart"
	orderrepo "storefront/internal/repository/order"
	productrepo "storefront/internal/repository/product"
	cartsvc "storefront/internal/service/cart"
	catalogsvc "storefront/internal/service/catalog"
	checkoutsvc "storefront/internal/service/checkout"
	ordersvc "storefront/internal/service/order"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	var cartCache *cache.CartCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		cartCache = cache.NewCartCache(redisClient, cfg.CartCacheTTL)
	}

	var notifier events.Notifier = events.NopNotifier{}
	if cfg.KafkaBrokers != "" {
		kafkaNotifier := events.NewKafkaNotifier(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaOrderTopic, logger)
		defer kafkaNotifier.Close()
		notifier = kafkaNotifier
	}

	pricer := pricing.NewCalculator()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, pricer, cfg.OrderNumberPrefix, logger)
	addressRepo := addressrepo.NewPostgres(dbpool)

	catalogService := catalogsvc.New(productRepo)
	cartService := cartsvc.New(cartRepo, catalogService, cartCache, logger)
	checkoutService := checkoutsvc.New(checkoutsvc.Deps{
		Carts:     cartRepo,
		Orders:    orderRepo,
		Catalog:   catalogService,
		Pricer:    pricer,
		Discounts: pricing.NoDiscount{},
		CartCache: cartService,
		Notifier:  notifier,
		Logger:    logger,
	})
	orderService := ordersvc.New(orderRepo, notifier, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Catalog:   catalogService,
		Cart:      cartService,
		Checkout:  checkoutService,
		Orders:    orderService,
		Addresses: addressRepo,
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
