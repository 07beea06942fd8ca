package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/flicky/storefront-api/internal/cache"
	"github.com/flicky/storefront-api/internal/config"
	"github.com/flicky/storefront-api/internal/handler"
	"github.com/flicky/storefront-api/internal/payment"
	"github.com/flicky/storefront-api/internal/repository"
	"github.com/flicky/storefront-api/internal/service"
	"github.com/flicky/storefront-api/internal/token"
	"github.com/flicky/storefront-api/internal/worker"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	if cfg.DB.MigrateOnStart {
		if err := repository.Migrate(cfg.DB.DSN()); err != nil {
			log.Error("migrate database", "error", err)
			os.Exit(1)
		}
		log.Info("database migrations applied")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DB.DSN())
	if err != nil {
		log.Error("parse db config", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = cfg.DB.MaxConns

	dbPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Error("ping database", "error", err)
		os.Exit(1)
	}
	log.Info("connected to PostgreSQL")

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis")

	// RabbitMQ
	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Error("connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()

	consumeCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer consumeCh.Close()

	if err := worker.SetupRabbitMQ(consumeCh); err != nil {
		log.Error("setup RabbitMQ", "error", err)
		os.Exit(1)
	}

	publishCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer publishCh.Close()
	log.Info("connected to RabbitMQ")

	// Repositories
	userRepo := repository.NewUserRepository(dbPool)
	categoryRepo := repository.NewCategoryRepository(dbPool)
	productRepo := repository.NewProductRepository(dbPool)
	cartRepo := repository.NewCartRepository(dbPool)
	addressRepo := repository.NewAddressRepository(dbPool)
	orderRepo := repository.NewOrderRepository(dbPool)
	reviewRepo := repository.NewReviewRepository(dbPool)
	wishlistRepo := repository.NewWishlistRepository(dbPool)

	// Services
	productCache := cache.NewRedisProductCache(redisClient, cfg.Redis.ProductTTL)
	pricing := service.Pricing{
		TaxRate:                    cfg.Pricing.TaxRate,
		ShippingCents:              cfg.Pricing.ShippingCents,
		FreeShippingThresholdCents: cfg.Pricing.FreeShippingThresholdCents,
	}

	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.Expiration)
	authSvc := service.NewAuthService(userRepo, tokens)
	productSvc := service.NewProductService(productRepo, categoryRepo, productCache, log)
	categorySvc := service.NewCategoryService(categoryRepo)
	cartSvc := service.NewCartService(cartRepo, productRepo)
	addressSvc := service.NewAddressService(addressRepo)
	orderSvc := service.NewOrderService(orderRepo, productRepo, addressRepo,
		payment.NewVerifier(cfg.Payment.KeySecret), pricing, worker.NewPublisher(publishCh), log)
	reviewSvc := service.NewReviewService(reviewRepo, productRepo, productSvc)
	wishlistSvc := service.NewWishlistService(wishlistRepo)

	// Worker
	orderWorker := worker.NewOrderEventWorker(consumeCh, cartRepo, productSvc, redisClient, log)
	if err := orderWorker.Start(ctx); err != nil {
		log.Error("start order event worker", "error", err)
		os.Exit(1)
	}

	// Router
	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(log, tokens, userRepo, handler.Handlers{
		Auth:     handler.NewAuthHandler(authSvc, cfg.Server.CookieSecure),
		Product:  handler.NewProductHandler(productSvc),
		Category: handler.NewCategoryHandler(categorySvc),
		Cart:     handler.NewCartHandler(cartSvc),
		Address:  handler.NewAddressHandler(addressSvc),
		Order:    handler.NewOrderHandler(orderSvc),
		Review:   handler.NewReviewHandler(reviewSvc),
		Wishlist: handler.NewWishlistHandler(wishlistSvc),
		Health:   handler.NewHealthHandler(dbPool, redisClient, amqpConn),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	orderWorker.Stop()
	cancel()
	log.Info("server stopped")
}
