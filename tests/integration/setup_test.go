package integration

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	adaptershttp "github.com/hewad/sarrafbook/internal/adapter/http"
	"github.com/hewad/sarrafbook/internal/adapter/http/handler"
	"github.com/hewad/sarrafbook/internal/adapter/repository/postgres"
	redisrepo "github.com/hewad/sarrafbook/internal/adapter/repository/redis"
	infraredis "github.com/hewad/sarrafbook/internal/infrastructure/redis"
	"github.com/hewad/sarrafbook/internal/usecase"
	"github.com/hewad/sarrafbook/tests/testutil"
)

const baseCurrency = "AFN"

// testEnv wires the full stack against real Postgres and Redis instances,
// the way cmd/server does.
type testEnv struct {
	DB     *testutil.TestDB
	Redis  *redis.Client
	Router http.Handler

	BalanceRepo *postgres.BalanceRepository
	TxRepo      *postgres.TransactionRepository
	OutboxRepo  *postgres.OutboxRepository
	RateRepo    *postgres.RateRepository

	LedgerUC   *usecase.LedgerUseCase
	ReversalUC *usecase.ReversalUseCase
	CatalogUC  *usecase.CatalogUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	pool := testDB.Pool
	entityRepo := postgres.NewEntityRepository(pool)
	balanceRepo := postgres.NewBalanceRepository(pool, baseCurrency)
	rateRepo := postgres.NewRateRepository(pool)
	txRepo := postgres.NewTransactionRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	txManager := postgres.NewTxManager(pool)
	retrier := postgres.NewRetrier()
	idGen := postgres.NewULIDGenerator()

	cache := redisrepo.NewCache(redisClient)
	idempotencyStore := redisrepo.NewIdempotencyStore(redisClient)

	directoryUC := usecase.NewDirectoryUseCase(entityRepo)
	catalogUC := usecase.NewCatalogUseCase(rateRepo, cache, baseCurrency)
	entityUC := usecase.NewEntityUseCase(entityRepo, balanceRepo, idGen)
	ledgerUC := usecase.NewLedgerUseCase(txManager, directoryUC, catalogUC, balanceRepo, txRepo, outboxRepo, idGen, retrier, nil)
	reversalUC := usecase.NewReversalUseCase(txManager, directoryUC, balanceRepo, txRepo, outboxRepo, idGen, retrier, nil)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		EntityHandler:      handler.NewEntityHandler(entityUC),
		TransferHandler:    handler.NewTransferHandler(ledgerUC),
		TransactionHandler: handler.NewTransactionHandler(ledgerUC, reversalUC),
		RateHandler:        handler.NewRateHandler(catalogUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     time.Hour,
		Logger:             zerolog.Nop(),
	})

	return &testEnv{
		DB:          testDB,
		Redis:       redisClient,
		Router:      router,
		BalanceRepo: balanceRepo,
		TxRepo:      txRepo,
		OutboxRepo:  outboxRepo,
		RateRepo:    rateRepo,
		LedgerUC:    ledgerUC,
		ReversalUC:  reversalUC,
		CatalogUC:   catalogUC,
	}
}

// seedStandardCurrencies installs the base currency plus two foreign ones
// used across the tests.
func (env *testEnv) seedStandardCurrencies(ctx context.Context) {
	env.DB.SeedCurrency(ctx, baseCurrency, one(), true)
	env.DB.SeedCurrency(ctx, "USD", dec("70"), false)
	env.DB.SeedCurrency(ctx, "EUR", dec("140"), false)
}

func (env *testEnv) reset(ctx context.Context) {
	env.DB.TruncateAll(ctx)
	env.Redis.FlushAll(ctx)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func one() decimal.Decimal {
	return decimal.NewFromInt(1)
}
