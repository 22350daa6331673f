package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/hewad/sarrafbook/internal/adapter/http"
	"github.com/hewad/sarrafbook/internal/adapter/http/handler"
	"github.com/hewad/sarrafbook/internal/adapter/http/middleware"
	postgresRepo "github.com/hewad/sarrafbook/internal/adapter/repository/postgres"
	redisRepo "github.com/hewad/sarrafbook/internal/adapter/repository/redis"
	"github.com/hewad/sarrafbook/internal/infrastructure/config"
	"github.com/hewad/sarrafbook/internal/infrastructure/eventpublisher"
	"github.com/hewad/sarrafbook/internal/infrastructure/logging"
	"github.com/hewad/sarrafbook/internal/infrastructure/metrics"
	"github.com/hewad/sarrafbook/internal/infrastructure/postgres"
	"github.com/hewad/sarrafbook/internal/infrastructure/redis"
	"github.com/hewad/sarrafbook/internal/usecase"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx := context.Background()

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	entityRepo := postgresRepo.NewEntityRepository(pool)
	balanceRepo := postgresRepo.NewBalanceRepository(pool, cfg.BaseCurrency)
	rateRepo := postgresRepo.NewRateRepository(pool)
	txRepo := postgresRepo.NewTransactionRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	retrier := postgresRepo.NewRetrier()
	idGen := postgresRepo.NewULIDGenerator()

	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Initialize use cases
	directoryUC := usecase.NewDirectoryUseCase(entityRepo)
	catalogUC := usecase.NewCatalogUseCase(rateRepo, cache, cfg.BaseCurrency)
	entityUC := usecase.NewEntityUseCase(entityRepo, balanceRepo, idGen)
	ledgerUC := usecase.NewLedgerUseCase(txManager, directoryUC, catalogUC, balanceRepo, txRepo, outboxRepo, idGen, retrier, m)
	reversalUC := usecase.NewReversalUseCase(txManager, directoryUC, balanceRepo, txRepo, outboxRepo, idGen, retrier, m)

	// Initialize handlers
	entityHandler := handler.NewEntityHandler(entityUC)
	transferHandler := handler.NewTransferHandler(ledgerUC)
	transactionHandler := handler.NewTransactionHandler(ledgerUC, reversalUC)
	rateHandler := handler.NewRateHandler(catalogUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		EntityHandler:      entityHandler,
		TransferHandler:    transferHandler,
		TransactionHandler: transactionHandler,
		RateHandler:        rateHandler,
		HealthHandler:      healthHandler,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		RateLimiter:        rateLimiter,
		Metrics:            m,
		Logger:             log.Logger,
	})

	// Start the outbox publishing worker
	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()

	workerLogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  redisRepo.NewPublisher(redisClient, cfg.EventsChannel),
		Logger:     workerLogger.Logger,
		Metrics:    m,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
	})
	go func() {
		if err := publisher.Start(workerCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	// Per-IP limiter state grows with distinct clients; reset it hourly.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				rateLimiter.CleanupLimiters()
			}
		}
	}()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopWorker()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
