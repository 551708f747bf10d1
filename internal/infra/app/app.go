package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-auth/internal/core/port"
	"github.com/arklim/social-platform-auth/internal/infra/config"
	"github.com/arklim/social-platform-auth/internal/infra/database"
	"github.com/arklim/social-platform-auth/internal/infra/envcheck"
	kafkainfra "github.com/arklim/social-platform-auth/internal/infra/kafka"
	"github.com/arklim/social-platform-auth/internal/infra/logger"
	redisinfra "github.com/arklim/social-platform-auth/internal/infra/redis"
	"github.com/arklim/social-platform-auth/internal/infra/security"
	"github.com/arklim/social-platform-auth/internal/infra/telemetry"
	postgresrepo "github.com/arklim/social-platform-auth/internal/repository/postgres"
	redisrepo "github.com/arklim/social-platform-auth/internal/repository/redis"
	"github.com/arklim/social-platform-auth/internal/usecase"
)

// Application owns the wired service graph and the resources behind it.
type Application struct {
	cfg      *config.AppConfig
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
	registry *prometheus.Registry
	tracing  *telemetry.TracerProvider
	auth     *usecase.AuthService
	sessions *usecase.SessionManager
}

// New validates the environment and wires every service. In production an
// invalid environment or insecure secret set aborts startup; in development
// the same findings only warn.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	production := cfg.App.Production()
	env := envcheck.FromOS()

	required := envcheck.ValidateRequired(env, production)
	for _, warning := range required.Warnings {
		log.Warn("environment", zap.String("finding", warning))
	}
	if !required.Valid {
		for _, msg := range required.Errors {
			log.Error("environment", zap.String("finding", msg))
		}
		return nil, fmt.Errorf("environment validation failed with %d error(s)", len(required.Errors))
	}

	optional := envcheck.ValidateOptional(env)
	for _, warning := range optional.Warnings {
		log.Info("environment", zap.String("finding", warning))
	}

	secrets := envcheck.CheckSecrets(env, production)
	for _, issue := range secrets.Issues {
		log.Warn("secret audit",
			zap.String("variable", issue.Variable),
			zap.String("severity", string(issue.Severity)),
			zap.String("finding", issue.Message),
		)
	}
	if production && !secrets.Secure {
		return nil, fmt.Errorf("secret audit found high-severity issues")
	}

	envCfg, err := envcheck.SecureConfig(env)
	if err != nil {
		return nil, fmt.Errorf("build environment config: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := telemetry.New(registry, "auth")
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	tracing, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	lockoutStore := redisrepo.NewLockoutStore(redisClient.Client(), redisrepo.LockoutConfig{
		KeyPrefix:   cfg.Redis.LockoutPrefix,
		Threshold:   cfg.Lockout.Threshold,
		Window:      cfg.Lockout.Window,
		Duration:    cfg.Lockout.Duration,
		MaxDuration: cfg.Lockout.MaxDuration,
	})

	var eventPublisher port.EventPublisher
	var producer *kafkainfra.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			producer = nil
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	hasher, err := security.NewHasher(security.Argon2Params{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	})
	if err != nil {
		return nil, fmt.Errorf("init hasher: %w", err)
	}

	policy := security.StrengthPolicy{
		MinLength:  cfg.Password.MinLength,
		MinClasses: cfg.Password.MinClasses,
		MinScore:   cfg.Password.MinScore,
	}

	passwordService, err := usecase.NewPasswordSecurityService(hasher, policy, cfg.Password.MaxAge)
	if err != nil {
		return nil, fmt.Errorf("init password service: %w", err)
	}
	historyService, err := usecase.NewPasswordHistoryService(repos.History, cfg.Password.HistorySize)
	if err != nil {
		return nil, fmt.Errorf("init history service: %w", err)
	}
	lockoutService, err := usecase.NewAccountLockoutService(lockoutStore, eventPublisher, metrics, log)
	if err != nil {
		return nil, fmt.Errorf("init lockout service: %w", err)
	}
	sessionManager, err := usecase.NewSessionManager(repos.Sessions, repos.Users, eventPublisher, metrics, cfg.Session.TTL, cfg.Session.TokenBytes, log)
	if err != nil {
		return nil, fmt.Errorf("init session manager: %w", err)
	}

	authService, err := usecase.NewAuthService(repos.Users, eventPublisher, passwordService, historyService, lockoutService, sessionManager, metrics, envCfg, log)
	if err != nil {
		return nil, fmt.Errorf("init auth service: %w", err)
	}

	return &Application{
		cfg:      cfg,
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
		registry: registry,
		tracing:  tracing,
		auth:     authService,
		sessions: sessionManager,
	}, nil
}

// Auth exposes the wired authentication service.
func (a *Application) Auth() *usecase.AuthService {
	return a.auth
}

// Run serves metrics and drives the session sweep loop until ctx is done.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer a.pool.Close()
	defer func() {
		_ = a.redis.Close()
	}()
	if a.producer != nil {
		defer func() {
			_ = a.producer.Close()
		}()
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.tracing.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("shutdown tracing", zap.Error(err))
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Telemetry.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.logger.Info("starting auth service",
		zap.String("env", a.cfg.App.Env),
		zap.String("metrics_addr", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run metrics server: %w", err)
		}
	}()

	go a.sweepLoop(ctx)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown metrics server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}

func (a *Application) sweepLoop(ctx context.Context) {
	interval := a.cfg.Session.SweepInterval
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := a.sessions.SweepExpired(ctx)
			if err != nil {
				a.logger.Error("session sweep", zap.Error(err))
				continue
			}
			if removed > 0 {
				a.logger.Info("session sweep", zap.Int("removed", removed))
			}
		}
	}
}
