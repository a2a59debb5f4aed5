package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bozylik/sa-es-map/internal/domain"
	"github.com/bozylik/sa-es-map/pkg/e"
)

const eventColumns = `id, name, type, start_at, end_at, description,
	   x, y, x1, y1, x2, y2, is_line, status, created_at, rejection_reason`

type EventStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewEventStore(pool *pgxpool.Pool, logger *slog.Logger) *EventStore {
	return &EventStore{pool: pool, logger: logger}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	var (
		ev                   domain.Event
		x, y, x1, y1, x2, y2 *float64
		isLine               int16
		rejectionReason      *string
	)
	err := row.Scan(
		&ev.ID,
		&ev.Name,
		&ev.Type,
		&ev.Start,
		&ev.End,
		&ev.Description,
		&x, &y, &x1, &y1, &x2, &y2,
		&isLine,
		&ev.Status,
		&ev.CreatedAt,
		&rejectionReason,
	)
	if err != nil {
		return nil, err
	}

	if isLine != 0 {
		ev.Geometry.IsLine = true
		if x1 != nil && y1 != nil && x2 != nil && y2 != nil {
			ev.Geometry.Line = &domain.Line{X1: *x1, Y1: *y1, X2: *x2, Y2: *y2}
		}
	} else if x != nil && y != nil {
		ev.Geometry.Point = &domain.Point{X: *x, Y: *y}
	}
	if rejectionReason != nil {
		ev.RejectionReason = *rejectionReason
	}
	return &ev, nil
}

func geometryArgs(g domain.Geometry) (x, y, x1, y1, x2, y2 *float64, isLine int16) {
	if p := g.Point; p != nil {
		x, y = &p.X, &p.Y
	}
	if l := g.Line; l != nil {
		x1, y1, x2, y2 = &l.X1, &l.Y1, &l.X2, &l.Y2
	}
	if g.IsLine {
		isLine = 1
	}
	return
}

func collectEvents(rows pgx.Rows) ([]*domain.Event, error) {
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *EventStore) ListApproved(ctx context.Context) ([]*domain.Event, error) {
	const op = "postgres.Event.ListApproved"

	query := fmt.Sprintf(`
		SELECT %s FROM events
		WHERE status = 'approved'
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

func (s *EventStore) ListApprovedByType(ctx context.Context, t domain.EventType) ([]*domain.Event, error) {
	const op = "postgres.Event.ListApprovedByType"

	query := fmt.Sprintf(`
		SELECT %s FROM events
		WHERE status = 'approved' AND type = $1
		ORDER BY created_at DESC
	`, eventColumns)

	rows, err := s.pool.Query(ctx, query, t)
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

func (s *EventStore) Insert(ctx context.Context, ev *domain.Event) (int64, error) {
	const op = "postgres.Event.Insert"

	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	ev.Status = domain.StatusApproved

	x, y, x1, y1, x2, y2, isLine := geometryArgs(ev.Geometry)

	const query = `
		INSERT INTO events (name, type, start_at, end_at, description,
							x, y, x1, y1, x2, y2, is_line, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 'approved', $13)
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

func (s *EventStore) Update(ctx context.Context, id int64, ev *domain.Event) error {
	const op = "postgres.Event.Update"

	x, y, x1, y1, x2, y2, isLine := geometryArgs(ev.Geometry)

	const query = `
		UPDATE events
		SET name = $2, type = $3, start_at = $4, end_at = $5, description = $6,
			x = $7, y = $8, x1 = $9, y1 = $10, x2 = $11, y2 = $12, is_line = $13
		WHERE id = $1 AND status = 'approved'
	`

	cmd, err := s.pool.Exec(ctx, query,
		id, ev.Name, ev.Type, ev.Start, ev.End, ev.Description,
		x, y, x1, y1, x2, y2, isLine,
	)
	if err != nil {
		s.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.Int64("id", id))
		return e.WrapError(ctx, op, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}

	return nil
}

func (s *EventStore) Delete(ctx context.Context, id int64) error {
	const op = "postgres.Event.Delete"

	const query = `DELETE FROM events WHERE id = $1 AND status = 'approved'`

	cmd, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		s.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.Int64("id", id))
		return e.WrapError(ctx, op, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}

	return nil
}

func (s *EventStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const op = "postgres.Event.DeleteExpired"

	const query = `DELETE FROM events WHERE status = 'approved' AND end_at < $1`

	cmd, err := s.pool.Exec(ctx, query, now.UTC())
	if err != nil {
		s.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return 0, e.WrapError(ctx, op, err)
	}

	return cmd.RowsAffected(), nil
}
