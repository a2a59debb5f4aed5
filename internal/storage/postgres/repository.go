package postgres

import (
	"context"
	"time"

	"github.com/bozylik/sa-es-map/internal/domain"
)

// EventRepository is the published (approved) side of the table.
type EventRepository interface {
	ListApproved(ctx context.Context) ([]*domain.Event, error)
	ListApprovedByType(ctx context.Context, t domain.EventType) ([]*domain.Event, error)
	// Insert writes a row directly as approved, bypassing moderation.
	// Seeding and imports only; the workflow always goes through the queue.
	Insert(ctx context.Context, ev *domain.Event) (int64, error)
	Update(ctx context.Context, id int64, ev *domain.Event) error
	// Delete is not idempotent: deleting an absent id returns ErrNotFound.
	Delete(ctx context.Context, id int64) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// QueueRepository is the moderation side of the same table.
type QueueRepository interface {
	InsertPending(ctx context.Context, ev *domain.Event) (int64, error)
	List(ctx context.Context) ([]*domain.Event, error)
	// Approve flips pending->approved in one statement; a concurrent
	// second call observes ErrNotFound, never a duplicate.
	Approve(ctx context.Context, id int64) (*domain.Event, error)
	Reject(ctx context.Context, id int64, reason string) error
	CountPending(ctx context.Context) (int64, error)
}

func (p *Postgres) Events() EventRepository { return p.Event }
func (p *Postgres) Queues() QueueRepository { return p.Queue }
