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
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/autotransfer/internal/adapter/http"
	"github.com/iho/autotransfer/internal/adapter/http/handler"
	"github.com/iho/autotransfer/internal/adapter/http/middleware"
	"github.com/iho/autotransfer/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/autotransfer/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/autotransfer/internal/adapter/repository/redis"
	"github.com/iho/autotransfer/internal/domain"
	"github.com/iho/autotransfer/internal/infrastructure/auth"
	"github.com/iho/autotransfer/internal/infrastructure/config"
	"github.com/iho/autotransfer/internal/infrastructure/eventpublisher"
	"github.com/iho/autotransfer/internal/infrastructure/idgen"
	"github.com/iho/autotransfer/internal/infrastructure/logger"
	"github.com/iho/autotransfer/internal/infrastructure/metrics"
	"github.com/iho/autotransfer/internal/infrastructure/postgres"
	"github.com/iho/autotransfer/internal/infrastructure/redis"
	"github.com/iho/autotransfer/internal/infrastructure/scheduler"
	"github.com/iho/autotransfer/internal/usecase"
)

const (
	tokenTTL          = 24 * time.Hour
	runLockExpiry     = 30 * time.Minute
	limiterSweepEvery = 10 * time.Minute
	demoCredential    = "1234"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "autotransfer",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

// repositories is the storage backend selected by STORAGE.
type repositories struct {
	txManager     usecase.TransactionManager
	accounts      usecase.AccountRepository
	ledger        usecase.LedgerRepository
	members       usecase.MemberRepository
	categories    usecase.CategoryRepository
	autoTransfers usecase.AutoTransferRepository
	notifications usecase.NotificationRepository
	outbox        usecase.OutboxRepository
	retrier       usecase.Retrier
	checks        []handler.HealthCheck
	close         func()
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	repos, err := openRepositories(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer repos.close()

	// Redis is optional: without it idempotency keys, replay and the
	// distributed run lock are disabled.
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, continuing without it")
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Info().Msg("connected to redis")
			repos.checks = append(repos.checks, handler.HealthCheck{
				Name:  "redis",
				Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
			})
		}
	}

	publisher, closePublisher := newPublisher(cfg, log)
	defer closePublisher()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	idGen := idgen.NewULIDGenerator()

	// Use cases
	transferUC := usecase.NewTransferUseCase(
		repos.txManager,
		repos.accounts,
		repos.ledger,
		repos.members,
		repos.categories,
		auth.NewBcryptVerifier(),
		idGen,
	).
		WithCategory(cfg.TransferCategory).
		WithMetrics(m).
		WithOutbox(repos.outbox)
	if repos.retrier != nil {
		transferUC.WithRetrier(repos.retrier)
	}

	notificationUC := usecase.NewNotificationUseCase(repos.notifications, idGen, log).
		WithPublisher(publisher).
		WithMetrics(m)

	autoTransferUC := usecase.NewAutoTransferUseCase(repos.autoTransfers, repos.accounts, idGen)

	runner := usecase.NewAutoTransferRunner(repos.autoTransfers, autoTransferUC, transferUC, notificationUC, log).
		WithClock(func() time.Time { return time.Now().In(loc) }).
		WithRetryWindow(cfg.RetryWindowStart, cfg.RetryWindowEnd).
		WithMetrics(m)

	var idempotencyStore usecase.IdempotencyStore
	if redisClient != nil {
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		notificationUC.WithCache(redisRepo.NewNotificationCache(redisClient, time.Hour))
		runner.WithLocker(redisRepo.NewRunLocker(redisClient, runLockExpiry, log))
	}

	ledgerUC := usecase.NewLedgerUseCase(repos.accounts, repos.ledger)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithMetrics(m)
	go rateLimiter.RunCleanup(ctx, limiterSweepEvery)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:      handler.NewAccountHandler(usecase.NewAccountUseCase(repos.accounts, repos.members), ledgerUC),
		TransferHandler:     handler.NewTransferHandler(transferUC),
		AutoTransferHandler: handler.NewAutoTransferHandler(autoTransferUC),
		NotificationHandler: handler.NewNotificationHandler(notificationUC),
		LedgerHandler:       handler.NewLedgerHandler(ledgerUC),
		BatchHandler:        handler.NewBatchHandler(runner),
		HealthHandler:       handler.NewHealthHandler(repos.checks...),
		Authenticate:        authenticator(cfg, m),
		IdempotencyStore:    idempotencyStore,
		IdempotencyTTL:      cfg.IdempotencyTTL,
		RateLimiter:         rateLimiter,
		Metrics:             m,
		MetricsHandler:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Logger:              log,
	})

	relay := eventpublisher.NewRelay(eventpublisher.RelayConfig{
		Outbox:    repos.outbox,
		Publisher: publisher,
		Logger:    log,
		Metrics:   m,
		BatchSize: cfg.OutboxBatchSize,
		Interval:  cfg.OutboxPollInterval,
		Retention: cfg.OutboxRetention,
	})
	go func() {
		if err := relay.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("outbox relay stopped")
		}
	}()

	if cfg.SchedulerEnabled {
		sched := scheduler.New(scheduler.Config{
			Runner:   runner,
			Logger:   log,
			Location: loc,
			DueHour:  cfg.DueRunHour,
		})
		go func() {
			if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("scheduler stopped")
			}
		}()
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.Storage).Bool("auth", cfg.AuthEnabled).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}

func openRepositories(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repositories, error) {
	if cfg.Storage == config.StorageMemory {
		store, err := newDemoStore(cfg.LockTimeout)
		if err != nil {
			return nil, err
		}
		log.Warn().Msg("using in-memory storage with demo data; nothing is persisted")
		return memoryRepositories(store), nil
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	log.Info().Msg("connected to postgres")

	return &repositories{
		txManager:     postgresRepo.NewTxManager(pool, cfg.LockTimeout),
		accounts:      postgresRepo.NewAccountRepository(pool),
		ledger:        postgresRepo.NewLedgerRepository(pool),
		members:       postgresRepo.NewMemberRepository(pool),
		categories:    postgresRepo.NewCategoryRepository(pool),
		autoTransfers: postgresRepo.NewAutoTransferRepository(pool),
		notifications: postgresRepo.NewNotificationRepository(pool),
		outbox:        postgresRepo.NewOutboxRepository(pool),
		retrier:       postgresRepo.NewRetrier(log),
		checks:        []handler.HealthCheck{{Name: "postgres", Check: pool.Ping}},
		close:         pool.Close,
	}, nil
}

func memoryRepositories(store *memory.Store) *repositories {
	return &repositories{
		txManager:     store,
		accounts:      memory.NewAccountRepository(store),
		ledger:        memory.NewLedgerRepository(store),
		members:       memory.NewMemberRepository(store),
		categories:    memory.NewCategoryRepository(store),
		autoTransfers: memory.NewAutoTransferRepository(store),
		notifications: memory.NewNotificationRepository(store),
		outbox:        memory.NewOutboxRepository(store),
		close:         func() {},
	}
}

// newDemoStore returns an in-memory store with two members who each own one
// checking account. Both accounts accept the credential 1234.
func newDemoStore(lockTimeout time.Duration) (*memory.Store, error) {
	hash, err := auth.HashCredential(demoCredential)
	if err != nil {
		return nil, err
	}

	store := memory.NewStore(lockTimeout)
	store.AddCategory(domain.Category{ID: "cat-transfer", Name: usecase.DefaultTransferCategory})
	store.AddMember(domain.Member{ID: "member-1", Name: "Alice"})
	store.AddMember(domain.Member{ID: "member-2", Name: "Bob"})

	accounts := []domain.Account{
		{ID: "account-1", MemberID: "member-1", BankName: "KB", Number: "100-0001", Name: "Alice checking", Balance: 100000},
		{ID: "account-2", MemberID: "member-2", BankName: "NH", Number: "200-0001", Name: "Bob checking", Balance: 50000},
	}
	for _, a := range accounts {
		a.Type = domain.AccountTypeChecking
		a.CredentialHash = hash
		a.CreatedAt = time.Now().UTC()
		if err := store.AddAccount(a); err != nil {
			return nil, err
		}
	}

	return store, nil
}

// newPublisher returns a Kafka publisher when brokers are configured and a
// log publisher otherwise. A Kafka connection failure falls back to logging.
func newPublisher(cfg *config.Config, log zerolog.Logger) (usecase.EventPublisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		return eventpublisher.NewLogPublisher(log), func() {}
	}

	publisher, err := eventpublisher.NewKafkaPublisher(eventpublisher.KafkaConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
		Logger:  log,
	})
	if err != nil {
		log.Warn().Err(err).Strs("brokers", cfg.KafkaBrokers).Msg("kafka unavailable, logging events instead")
		return eventpublisher.NewLogPublisher(log), func() {}
	}

	return publisher, func() {
		if err := publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close kafka producer")
		}
	}
}

func authenticator(cfg *config.Config, m *metrics.Metrics) func(http.Handler) http.Handler {
	if !cfg.AuthEnabled {
		return middleware.HeaderIdentity
	}
	return middleware.AuthMiddleware(auth.NewJWTManager(cfg.JWTSecret, tokenTTL), m)
}
