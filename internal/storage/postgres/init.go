package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bozylik/sa-es-map/internal/config"
	"github.com/bozylik/sa-es-map/pkg/e"
)

// One table holds both the moderation queue and the published set,
// distinguished by status. Approving is then a single atomic status
// flip instead of a copy between collections, and the submission id
// survives moderation.
const schema = `
CREATE TABLE IF NOT EXISTS events (
	id               BIGSERIAL PRIMARY KEY,
	name             TEXT NOT NULL,
	type             TEXT NOT NULL,
	start_at         TIMESTAMPTZ NOT NULL,
	end_at           TIMESTAMPTZ NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	x                DOUBLE PRECISION,
	y                DOUBLE PRECISION,
	x1               DOUBLE PRECISION,
	y1               DOUBLE PRECISION,
	x2               DOUBLE PRECISION,
	y2               DOUBLE PRECISION,
	is_line          SMALLINT NOT NULL DEFAULT 0,
	status           TEXT NOT NULL DEFAULT 'pending',
	created_at       TIMESTAMPTZ NOT NULL,
	rejection_reason TEXT
);
CREATE INDEX IF NOT EXISTS idx_events_status_created ON events (status, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_events_status_end ON events (status, end_at);
`

type Postgres struct {
	Pool  *pgxpool.Pool
	Event EventRepository
	Queue QueueRepository
}

func NewPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Postgres, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Database,
		cfg.Postgres.SSLMode,
	)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("Failed to parse pgx config", slog.String("error", err.Error()))
		return nil, e.Wrap("storage.pg.NewPostgres.ParseConfig", err)
	}
	poolCfg.MaxConns = cfg.Postgres.MaxConns
	poolCfg.MinConns = cfg.Postgres.MinConns
	poolCfg.MaxConnLifetime = cfg.Postgres.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Error("Failed to create pgx pool", slog.String("error", err.Error()))
		return nil, e.Wrap("storage.pg.NewPostgres.NewWithConfig", err)
	}

	if err := pool.Ping(ctx); err != nil {
		logger.Error("Failed to ping Postgres database", slog.String("error", err.Error()))
		pool.Close()
		return nil, e.Wrap("storage.pg.NewPostgres.Ping", err)
	}
	logger.Info("Connected to Postgres successfully")

	if _, err := pool.Exec(ctx, schema); err != nil {
		logger.Error("Failed to init schema", slog.String("error", err.Error()))
		pool.Close()
		return nil, e.Wrap("storage.pg.NewPostgres.Schema", err)
	}

	pg := &Postgres{
		Pool:  pool,
		Event: NewEventStore(pool, logger),
		Queue: NewQueueStore(pool, logger),
	}

	logger.Info("Postgres repositories created")
	return pg, nil
}
