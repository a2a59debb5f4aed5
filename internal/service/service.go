package service

import (
	"context"
	"time"

	"github.com/bozylik/sa-es-map/internal/domain"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go

// PublicEventService covers the unauthenticated surface: the published
// map and new submissions.
type PublicEventService interface {
	ListApproved(ctx context.Context) ([]*domain.Event, error)
	ListApprovedByType(ctx context.Context, eventType string) ([]*domain.Event, error)
	Submit(ctx context.Context, draft domain.EventDraft) (*domain.Event, error)
}

// ModerationService covers the admin surface: the queue, the two
// terminal transitions and maintenance of published events.
type ModerationService interface {
	ListQueue(ctx context.Context) ([]*domain.Event, error)
	Approve(ctx context.Context, id int64) (*domain.Event, error)
	Reject(ctx context.Context, id int64, reason string) (string, error)
	Update(ctx context.Context, id int64, draft domain.EventDraft) error
	Delete(ctx context.Context, id int64) error
}

type EventRepository interface {
	ListApproved(ctx context.Context) ([]*domain.Event, error)
	ListApprovedByType(ctx context.Context, t domain.EventType) ([]*domain.Event, error)
	Update(ctx context.Context, id int64, ev *domain.Event) error
	Delete(ctx context.Context, id int64) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type QueueRepository interface {
	InsertPending(ctx context.Context, ev *domain.Event) (int64, error)
	List(ctx context.Context) ([]*domain.Event, error)
	Approve(ctx context.Context, id int64) (*domain.Event, error)
	Reject(ctx context.Context, id int64, reason string) error
	CountPending(ctx context.Context) (int64, error)
}

type EventCache interface {
	GetApproved(ctx context.Context) ([]*domain.Event, error)
	SetApproved(ctx context.Context, events []*domain.Event) error
	Invalidate(ctx context.Context) error
}

type Service struct {
	PublicEventService PublicEventService
	ModerationService  ModerationService
}

func NewService(
	publicEventService PublicEventService,
	moderationService ModerationService,
) *Service {
	return &Service{
		PublicEventService: publicEventService,
		ModerationService:  moderationService,
	}
}
