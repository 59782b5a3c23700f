package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/estate-service/internal/api/http"
	"github.com/spec-kit/estate-service/internal/api/http/handlers"
	"github.com/spec-kit/estate-service/internal/auth"
	"github.com/spec-kit/estate-service/internal/config"
	"github.com/spec-kit/estate-service/internal/events"
	"github.com/spec-kit/estate-service/internal/observability"
	"github.com/spec-kit/estate-service/internal/payments"
	"github.com/spec-kit/estate-service/internal/persistence"
	"github.com/spec-kit/estate-service/internal/repository"
	"github.com/spec-kit/estate-service/internal/service"
	"github.com/spec-kit/estate-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, os.DirFS(persistence.MigrationsDir), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	store := pg.DocumentStore()
	userRepo := repository.NewUserRepository(store)
	propertyRepo := repository.NewPropertyRepository(store)
	offerRepo := repository.NewOfferRepository(store)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification))

	intents := redis.IntentStore()
	if intents == nil {
		memIntents := payments.NewMemoryIntentStore()
		worker.StartIntentSweeper(ctx, memIntents, time.Minute, logger)
		intents = memIntents
	}
	gateway := payments.WithCircuitBreaker(payments.NewLocalGateway(logger), payments.BreakerConfig{
		Name:             "payment-gateway",
		FailureThreshold: cfg.Payment.GatewayFailThreshold,
		OpenTimeout:      time.Duration(cfg.Payment.GatewayOpenSeconds) * time.Second,
	}, logger)

	metrics := observability.NewMetrics()
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	access := auth.NewAccessControl(tokens, auth.NewPrincipalResolver(userRepo), logger, metrics)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{UserRepo: userRepo, TokenManager: tokens})
	userService := service.NewUserService(userRepo)
	propertyService := service.NewPropertyService(service.PropertyDependencies{PropertyRepo: propertyRepo, Dispatcher: dispatcher})
	wishlistService := service.NewWishlistService(repository.NewWishlistRepository(store), propertyRepo)
	reviewService := service.NewReviewService(repository.NewReviewRepository(store), propertyRepo)
	offerService := service.NewOfferService(service.OfferDependencies{
		OfferRepo:    offerRepo,
		PropertyRepo: propertyRepo,
		Dispatcher:   dispatcher,
	})
	paymentService := service.NewPaymentService(cfg.Payment, service.PaymentDependencies{
		OfferRepo:   offerRepo,
		PaymentRepo: repository.NewPaymentRepository(store),
		Intents:     intents,
		Gateway:     gateway,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	app := httptransport.NewApp(cfg, logger, metrics)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Access:     access,
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store, redis),
		Users:      handlers.NewUsersHandler(authService, userService),
		Properties: handlers.NewPropertiesHandler(propertyService),
		Wishlist:   handlers.NewWishlistHandler(wishlistService),
		Reviews:    handlers.NewReviewsHandler(reviewService),
		Offers:     handlers.NewOffersHandler(offerService),
		Payments:   handlers.NewPaymentsHandler(paymentService),
		Metrics:    handlers.MetricsHandler(metrics),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
