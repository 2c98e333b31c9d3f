package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	config "task-manager.com/task-manager/internal/configs"
	httpapi "task-manager.com/task-manager/internal/http"
	"task-manager.com/task-manager/internal/http/docs"
	"task-manager.com/task-manager/internal/limiter"
	"task-manager.com/task-manager/internal/logger"
	"task-manager.com/task-manager/internal/services"
	"task-manager.com/task-manager/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the task manager HTTP API and its documentation page",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		log, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		telemetryCfg := telemetry.Config{
			ServiceName:  cfg.ServiceName,
			Environment:  cfg.Environment,
			OTLPEndpoint: cfg.OTLPEndpoint,
		}

		tp, err := telemetry.InitTracerProvider(ctx, telemetryCfg)
		if err != nil {
			return err
		}
		mp, err := telemetry.InitMeterProvider(ctx, telemetryCfg)
		if err != nil {
			return err
		}

		store, err := config.NewStore(ctx, cfg)
		if err != nil {
			return err
		}
		log.Infow("store_connected", "backend", config.DetectBackend(cfg.DatabaseDSN))

		if err := store.Migrate(ctx); err != nil {
			return err
		}

		metrics, err := telemetry.NewMetrics(otel.Meter(cfg.ServiceName), store.Count)
		if err != nil {
			return err
		}

		rateLimiter, closeLimiter, err := newLimiter(ctx, cfg, log)
		if err != nil {
			return err
		}

		e := httpapi.NewServer(httpapi.ServerDeps{
			TaskService: services.NewTaskService(store, log),
			Limiter:     rateLimiter,
			Metrics:     metrics,
			Logger:      log,
			Docs: docs.Info{
				Title:       "Task Manager API",
				Version:     "1.0.0",
				Description: "API for managing tasks",
				ServerURL:   fmt.Sprintf("http://localhost:%d", cfg.AppPort),
			},
		})

		go func() {
			log.Infow("http_server_listening", "addr", cfg.AppURL(), "docs", httpapi.DocsPath)
			if err := e.Start(cfg.AppURL()); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorw("http_server_stopped", "error", err)
				stop()
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Errorw("http_server_shutdown_failed", "error", err)
		}
		closeLimiter()
		if err := store.Close(shutdownCtx); err != nil {
			log.Errorw("store_close_failed", "error", err)
		}
		if err := mp.Shutdown(shutdownCtx); err != nil {
			log.Errorw("meter_provider_shutdown_failed", "error", err)
		}
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Errorw("tracer_provider_shutdown_failed", "error", err)
		}

		log.Info("HTTP server shut down gracefully")
		return nil
	},
}

// newLimiter returns a Redis-backed limiter when REDIS_ADDR is set and an
// in-memory one otherwise.
func newLimiter(ctx context.Context, cfg config.Config, log *logger.Logger) (limiter.Limiter, func(), error) {
	limits := limiter.Config{Limit: cfg.RateLimit, Window: time.Minute}

	if cfg.RedisAddr == "" {
		l := limiter.NewMemoryLimiter(limits)
		go l.RunPruner(ctx)
		log.Infow("rate_limiter_ready", "backend", "memory", "limit", cfg.RateLimit)
		return l, func() {}, nil
	}

	client, err := config.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		return nil, nil, err
	}

	log.Infow("rate_limiter_ready", "backend", "redis", "addr", cfg.RedisAddr, "limit", cfg.RateLimit)
	return limiter.NewRedisLimiter(client, cfg.RedisKeyPrefix, limits), client.Close, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
