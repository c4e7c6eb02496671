package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/kasa/internal/adapter/http"
	"github.com/iho/kasa/internal/adapter/http/handler"
	"github.com/iho/kasa/internal/adapter/http/middleware"
	fileRepo "github.com/iho/kasa/internal/adapter/repository/file"
	postgresRepo "github.com/iho/kasa/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/kasa/internal/adapter/repository/redis"
	"github.com/iho/kasa/internal/infrastructure/clock"
	"github.com/iho/kasa/internal/infrastructure/config"
	"github.com/iho/kasa/internal/infrastructure/idgen"
	"github.com/iho/kasa/internal/infrastructure/logger"
	"github.com/iho/kasa/internal/infrastructure/metrics"
	"github.com/iho/kasa/internal/infrastructure/postgres"
	"github.com/iho/kasa/internal/infrastructure/redis"
	"github.com/iho/kasa/internal/infrastructure/scheduler"
	"github.com/iho/kasa/internal/usecase"
)

// limiterIdle is how long a client's rate limiter may sit unused.
const limiterIdle = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}
}

// storage is an opened snapshot backend.
type storage struct {
	snapshots   usecase.SnapshotStore
	pinger      handler.Pinger
	idempotency middleware.IdempotencyStore
	close       func()
}

// openStorage connects the configured snapshot backend. Only the redis
// backend provides idempotency keys.
func openStorage(ctx context.Context, cfg *config.Config, m *metrics.Metrics, l zerolog.Logger) (*storage, error) {
	switch cfg.StorageBackend {
	case config.BackendFile:
		store, err := fileRepo.NewSnapshotStore(cfg.DataDir, m)
		if err != nil {
			return nil, err
		}
		l.Info().Str("dir", cfg.DataDir).Msg("using file storage")
		return &storage{snapshots: store, pinger: store, close: func() {}}, nil

	case config.BackendRedis:
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		l.Info().Str("prefix", cfg.RedisKeyPrefix).Msg("connected to redis")
		store := redisRepo.NewSnapshotStore(client, cfg.RedisKeyPrefix, m)
		return &storage{
			snapshots:   store,
			pinger:      store,
			idempotency: redisRepo.NewIdempotencyStore(client, cfg.RedisKeyPrefix),
			close:       func() { _ = client.Close() },
		}, nil

	case config.BackendPostgres:
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, l); err != nil {
			return nil, err
		}

		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, err
		}
		l.Info().Msg("connected to postgres")
		store := postgresRepo.NewSnapshotStore(pool, postgresRepo.NewRetrier(l), m)
		return &storage{snapshots: store, pinger: store, close: pool.Close}, nil
	}

	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

func run(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) error {
	m := metrics.New(prometheus.DefaultRegisterer)
	clk := clock.New(cfg.Location())
	ids := idgen.NewULIDGenerator()

	st, err := openStorage(ctx, cfg, m, logger.Component(appLogger, "storage"))
	if err != nil {
		return err
	}
	defer st.close()

	store := usecase.NewStore(st.snapshots, m, logger.Component(appLogger, "store"))
	if err := store.Load(ctx); err != nil {
		// The ledgers that failed start empty; the server keeps running.
		appLogger.Error().Err(err).Msg("failed to restore some ledgers")
	}

	rates, err := usecase.NewRateTable(cfg.HourlyRates, cfg.DeductionRates)
	if err != nil {
		return err
	}

	engine := usecase.NewSettlementEngine(usecase.EngineConfig{
		Clock:        clk,
		IDGen:        ids,
		Recorder:     m,
		Logger:       logger.Component(appLogger, "settlement"),
		Landlord:     cfg.Landlord,
		SharedDebtor: cfg.SharedDebtor,
	})

	ucLogger := logger.Component(appLogger, "usecase")
	timeUC := usecase.NewTimeUseCase(store, engine, rates, clk, ids, m, ucLogger)
	financeUC := usecase.NewFinanceUseCase(store, engine, clk, ids, ucLogger)
	debtUC := usecase.NewDebtUseCase(store, clk, ids, ucLogger)
	budgetUC := usecase.NewBudgetUseCase(store, engine, clk, ucLogger)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).
		OnLimit(func(r *http.Request) { m.RateLimitHits.WithLabelValues(r.Method).Inc() })

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		SessionHandler:   handler.NewSessionHandler(timeUC, clk),
		FinanceHandler:   handler.NewFinanceHandler(financeUC, clk),
		DebtHandler:      handler.NewDebtHandler(debtUC),
		BudgetHandler:    handler.NewBudgetHandler(budgetUC),
		HealthHandler:    handler.NewHealthHandler(cfg.StorageBackend, st.pinger),
		MetricsHandler:   promhttp.Handler(),
		IdempotencyStore: st.idempotency,
		RateLimiter:      limiter,
		Logger:           logger.Component(appLogger, "http"),
	})

	jobLogger := logger.Component(appLogger, "scheduler")
	rent := scheduler.NewRunner(scheduler.Config{
		Name:     "monthly-rent",
		Interval: cfg.RentCheckInterval,
		Logger:   jobLogger,
		Job: func(ctx context.Context) error {
			accrual, err := budgetUC.AccrueMonthlyRent(ctx)
			if accrual != nil {
				jobLogger.Info().Str("record_id", accrual.Record.ID).Bool("debt", accrual.Debt != nil).Msg("rent accrued")
			}
			return err
		},
	})
	cleanup := scheduler.NewRunner(scheduler.Config{
		Name:     "limiter-cleanup",
		Interval: limiterIdle,
		Logger:   jobLogger,
		Job: func(context.Context) error {
			if n := limiter.CleanupLimiters(limiterIdle); n > 0 {
				jobLogger.Debug().Int("removed", n).Msg("idle rate limiters removed")
			}
			return nil
		},
	})

	go func() { _ = rent.Start(ctx) }()
	go func() { _ = cleanup.Start(ctx) }()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.StorageBackend).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	appLogger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	appLogger.Info().Msg("server stopped")
	return nil
}
