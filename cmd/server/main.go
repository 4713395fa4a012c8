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
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/splitledger/internal/adapter/http"
	"github.com/iho/splitledger/internal/adapter/http/handler"
	"github.com/iho/splitledger/internal/adapter/http/middleware"
	"github.com/iho/splitledger/internal/adapter/idgen"
	"github.com/iho/splitledger/internal/adapter/repository/memory"
	redisRepo "github.com/iho/splitledger/internal/adapter/repository/redis"
	"github.com/iho/splitledger/internal/infrastructure/config"
	"github.com/iho/splitledger/internal/infrastructure/logger"
	"github.com/iho/splitledger/internal/infrastructure/metrics"
	"github.com/iho/splitledger/internal/infrastructure/redis"
	"github.com/iho/splitledger/internal/usecase"
)

// janitorInterval is how often expired sessions and idle rate limiters are dropped.
const janitorInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "splitledger",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// app is the wired service.
type app struct {
	handler     http.Handler
	store       usecase.SessionStore
	memoryStore *memory.SessionStore
	rateLimiter *middleware.RateLimiter
	redisClient *goredis.Client
}

func (a *app) Close() error {
	if a.redisClient != nil {
		return a.redisClient.Close()
	}
	return nil
}

// newApp wires stores, use cases and the router from cfg.
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, reg *prometheus.Registry) (*app, error) {
	m := metrics.New(reg)
	a := &app{}

	var idempotencyStore usecase.IdempotencyStore
	switch cfg.SessionStore {
	case config.StoreRedis:
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("connected to redis")

		a.redisClient = client
		a.store = redisRepo.NewSessionStore(client, redisRepo.NewRetrier(log, m), cfg.SessionTTL)
		idempotencyStore = redisRepo.NewIdempotencyStore(client)
	default:
		a.memoryStore = memory.NewSessionStore(cfg.SessionTTL)
		a.store = a.memoryStore
	}

	ledgerUC := usecase.NewLedgerUseCase(a.store, idgen.NewULIDGenerator(), m)

	routerCfg := httpAdapter.RouterConfig{
		SessionHandler:   handler.NewSessionHandler(ledgerUC, cfg.SeedSessions),
		HealthHandler:    handler.NewHealthHandler(a.store, cfg.SessionStore),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		Logger:           log,
	}

	if cfg.RateLimitRPS > 0 {
		a.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m.RateLimitHits)
		routerCfg.RateLimiter = a.rateLimiter
	}

	if cfg.MetricsEnabled {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		routerCfg.HTTPMetrics = middleware.NewHTTPMetrics(reg)
		routerCfg.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	}

	a.handler = httpAdapter.NewRouter(routerCfg)
	return a, nil
}

// janitor drops expired in-memory sessions and idle rate limiters until ctx ends.
func (a *app) janitor(ctx context.Context, log zerolog.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.sweep(log)
		}
	}
}

func (a *app) sweep(log zerolog.Logger) {
	if a.memoryStore != nil {
		if n := a.memoryStore.PurgeExpired(); n > 0 {
			log.Debug().Int("sessions", n).Msg("purged expired sessions")
		}
	}
	if a.rateLimiter != nil {
		a.rateLimiter.CleanupLimiters(time.Hour)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	a, err := newApp(ctx, cfg, log, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer a.Close()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().
			Str("port", cfg.HTTPPort).
			Str("session_store", cfg.SessionStore).
			Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		a.janitor(gctx, log, janitorInterval)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}
