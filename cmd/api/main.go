package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mobile-money-gateway/config"
	httpHandler "mobile-money-gateway/internal/adapter/http/handler"
	"mobile-money-gateway/internal/adapter/ledger"
	"mobile-money-gateway/internal/adapter/messaging"
	"mobile-money-gateway/internal/adapter/provider"
	pgStorage "mobile-money-gateway/internal/adapter/storage/postgres"
	redisStorage "mobile-money-gateway/internal/adapter/storage/redis"
	"mobile-money-gateway/internal/core/ports"
	"mobile-money-gateway/internal/service"
	"mobile-money-gateway/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Bool("simulated_providers", cfg.Providers.Simulated).
		Msg("Starting Mobile Money Gateway")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	intentRepo := pgStorage.NewIntentRepo(pool)
	accountRepo := pgStorage.NewAccountRepo(pool)
	policyRepo := pgStorage.NewPolicyRepo(pool)
	limitationRepo := pgStorage.NewLimitationRepo(pool)
	riskEventRepo := pgStorage.NewRiskEventRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)

	var counters ports.CounterStore
	switch cfg.Risk.CounterBackend {
	case "redis":
		counters = redisStorage.NewCounterStore(rdb)
	default:
		counters = pgStorage.NewCounterStore(pool)
	}
	log.Info().Str("backend", cfg.Risk.CounterBackend).Msg("Velocity counter store selected")

	// Initialize Redis stores
	idempotencyCache := redisStorage.NewIdempotencyCache(rdb, cfg.Providers.IdempotencyTTL)
	callbackDedup := redisStorage.NewCallbackDedup(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Event publishing
	var publisher ports.EventPublisher = messaging.NewLogPublisher(log)
	if cfg.NATS.URL != "" {
		nc, err := messaging.Connect(cfg.NATS, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to NATS")
		}
		defer nc.Drain()
		publisher = messaging.NewPublisher(nc, cfg.NATS.SubjectPrefix, log)
	}

	// Ledger allocation
	var allocator ports.Allocator = ledger.NewLogAllocator(log)
	if cfg.Ledger.BaseURL != "" {
		allocator = ledger.NewClient(cfg.Ledger, log)
	}

	// Initialize core services
	encSvc, err := service.NewAESEncryptionService(cfg.AES.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}
	sigSvc := service.NewHMACSignatureService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	auditSvc := service.NewAuditService(auditRepo, log)

	// Initialize business services
	finalizer := service.NewIntentFinalizer(intentRepo, allocator, publisher, cfg.Finalizer, log)
	sweeper := service.NewFinalizationSweeper(intentRepo, finalizer, cfg.Finalizer, log)

	riskGate := service.NewRiskGateChain(service.RiskGateDeps{
		Policies:    policyRepo,
		Limitations: limitationRepo,
		Intents:     intentRepo,
		Counters:    counters,
		Events:      riskEventRepo,
		Publisher:   publisher,
	}, cfg.Risk, log)

	intentSvc := service.NewIntentService(service.IntentServiceDeps{
		Intents:    intentRepo,
		Accounts:   accountRepo,
		Finalizer:  finalizer,
		Parser:     provider.DefaultRegistry(),
		Encryption: encSvc,
		RiskGate:   riskGate,
		IdempCache: idempotencyCache,
		Dedup:      callbackDedup,
		Publisher:  publisher,
	}, cfg.Providers, log)

	// Background finalization sweep
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		sweeper.Run(ctx)
	}()

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		IntentSvc:      intentSvc,
		TokenSvc:       tokenSvc,
		SigSvc:         sigSvc,
		WebhookSecret:  cfg.Providers.WebhookSecret,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		AuditSvc:       auditSvc,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	intentSvc.Shutdown()
	stop()
	<-sweepDone

	log.Info().Msg("Server exited")
}
