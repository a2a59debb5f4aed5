package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bozylik/sa-es-map/internal/domain"
	"github.com/bozylik/sa-es-map/pkg/e"
)

type QueueStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewQueueStore(pool *pgxpool.Pool, logger *slog.Logger) *QueueStore {
	return &QueueStore{pool: pool, logger: logger}
}

func (s *QueueStore) InsertPending(ctx context.Context, ev *domain.Event) (int64, error) {
	const op = "postgres.Queue.InsertPending"

	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	ev.Status = domain.StatusPending

	x, y, x1, y1, x2, y2, isLine := geometryArgs(ev.Geometry)

	const query = `
		INSERT INTO events (name, type, start_at, end_at, description,
							x, y, x1, y1, x2, y2, is_line, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 'pending', $13)
		RETURNING id
	`

	err := s.pool.QueryRow(ctx, query,
		ev.Name, ev.Type, ev.Start, ev.End, ev.Description,
		x, y, x1, y1, x2, y2, isLine, ev.CreatedAt,
	).Scan(&ev.ID)
	if err != nil {
		s.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return 0, e.WrapError(ctx, op, err)
	}

	return ev.ID, nil
}

func (s *QueueStore) List(ctx context.Context) ([]*domain.Event, error) {
	const op = "postgres.Queue.List"

	query := fmt.Sprintf(`
		SELECT %s FROM events
		WHERE status IN ('pending', 'rejected')
		ORDER BY created_at DESC
	`, eventColumns)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		s.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	events, err := collectEvents(rows)
	if err != nil {
		s.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	return events, nil
}

// Approve is a single status flip on the shared table, so the id is
// preserved and a racing second caller always sees ErrNotFound.
func (s *QueueStore) Approve(ctx context.Context, id int64) (*domain.Event, error) {
	const op = "postgres.Queue.Approve"

	query := fmt.Sprintf(`
		UPDATE events
		SET status = 'approved'
		WHERE id = $1 AND status = 'pending'
		RETURNING %s
	`, eventColumns)

	ev, err := scanEvent(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		s.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.Int64("id", id))
		return nil, e.WrapError(ctx, op, err)
	}

	return ev, nil
}

// Reject marks the reason and removes the row in one transaction;
// rejected submissions are not retained.
func (s *QueueStore) Reject(ctx context.Context, id int64, reason string) error {
	const op = "postgres.Queue.Reject"

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		s.logger.Error("tx begin failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	defer tx.Rollback(ctx)

	const markQuery = `
		UPDATE events
		SET status = 'rejected', rejection_reason = $2
		WHERE id = $1 AND status = 'pending'
	`

	cmd, err := tx.Exec(ctx, markQuery, id, reason)
	if err != nil {
		s.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.Int64("id", id))
		return e.WrapError(ctx, op, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1 AND status = 'rejected'`, id); err != nil {
		s.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.Int64("id", id))
		return e.WrapError(ctx, op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		s.logger.Error("tx commit failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}

	return nil
}

func (s *QueueStore) CountPending(ctx context.Context) (int64, error) {
	const op = "postgres.Queue.CountPending"

	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM events WHERE status = 'pending'`).Scan(&count)
	if err != nil {
		s.logger.Error("db count failed", slog.String("op", op), slog.Any("error", err))
		return 0, e.WrapError(ctx, op, err)
	}
	return count, nil
}
