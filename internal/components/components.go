package components

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/bozylik/sa-es-map/internal/api"
	"github.com/bozylik/sa-es-map/internal/config"
	"github.com/bozylik/sa-es-map/internal/metrics"
	"github.com/bozylik/sa-es-map/internal/redis"
	"github.com/bozylik/sa-es-map/internal/service"
	"github.com/bozylik/sa-es-map/internal/storage/postgres"
	"github.com/bozylik/sa-es-map/pkg/logger"
)

type Components struct {
	logger     *slog.Logger
	HttpServer *api.Server
	Sweeper    *service.Sweeper
	Postgres   *postgres.Postgres
	Redis      *redis.Redis
}

func InitComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	logger.Info("Initializing Postgres")
	storage, err := postgres.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to init postgres", slog.Any("error", err))
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	logger.Info("Initializing Redis")
	redisClient, err := redis.NewRedis(ctx, cfg, logger)
	if err != nil {
		storage.Pool.Close()
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	eventCache := redis.NewEventCache(redisClient, cfg.Redis.CacheTTL)
	m := metrics.NewModerationMetrics()

	publicSvc := service.NewPublicEventService(storage.Events(), storage.Queues(), eventCache, m, logger)
	moderationSvc := service.NewModerationService(storage.Events(), storage.Queues(), eventCache, m, logger)
	svc := service.NewService(publicSvc, moderationSvc)

	sweeper := service.NewSweeper(storage.Events(), eventCache, m, logger, cfg.Sweep)

	httpServer := api.NewServer(cfg, logger, svc)
	logger.Info("Initialized server")

	return &Components{
		logger:     logger,
		HttpServer: httpServer,
		Sweeper:    sweeper,
		Postgres:   storage,
		Redis:      redisClient,
	}, nil
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case "local":
		return logger.SetupPrettySlog()
	case "dev":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	default:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}
}

func (c *Components) ShutdownAll() {
	start := time.Now()
	c.logger.Info("Shutting down components")

	c.Postgres.Pool.Close()
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("Redis close failed", slog.String("err", err.Error()))
		}
	}

	c.logger.Info("All components stopped",
		slog.Duration("latency", time.Since(start)))
}
