package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bozylik/sa-es-map/internal/domain"
	"github.com/bozylik/sa-es-map/internal/metrics"
	"github.com/bozylik/sa-es-map/pkg/e"
	"github.com/bozylik/sa-es-map/pkg/validator"
)

type publicEventService struct {
	events  EventRepository
	queue   QueueRepository
	cache   EventCache
	metrics *metrics.ModerationMetrics
	logger  *slog.Logger
}

func NewPublicEventService(
	events EventRepository,
	queue QueueRepository,
	cache EventCache,
	m *metrics.ModerationMetrics,
	logger *slog.Logger,
) PublicEventService {
	return &publicEventService{
		events:  events,
		queue:   queue,
		cache:   cache,
		metrics: m,
		logger:  logger,
	}
}

func (s *publicEventService) ListApproved(ctx context.Context) ([]*domain.Event, error) {
	if s.cache != nil {
		cached, err := s.cache.GetApproved(ctx)
		if err != nil {
			s.logger.Warn("event cache read failed, falling back to db", slog.Any("error", err))
		} else if cached != nil {
			return cached, nil
		}
	}

	events, err := s.events.ListApproved(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetApproved(ctx, events); err != nil {
			s.logger.Warn("event cache write failed", slog.Any("error", err))
		}
	}

	return events, nil
}

func (s *publicEventService) ListApprovedByType(ctx context.Context, eventType string) ([]*domain.Event, error) {
	t := domain.EventType(eventType)
	if !t.Valid() {
		return nil, fmt.Errorf("service.ListApprovedByType: type %q: %w", eventType, e.ErrInvalidInput)
	}
	return s.events.ListApprovedByType(ctx, t)
}

// Submit validates the draft, collecting every broken rule, and stores
// the event as pending. All submissions enter the queue; nothing is
// ever created directly as approved.
func (s *publicEventService) Submit(ctx context.Context, draft domain.EventDraft) (*domain.Event, error) {
	if err := validator.ValidateDraft(draft); err != nil {
		s.metrics.IncValidationFail()
		return nil, err
	}

	ev := draft.ToEvent()
	ev.CreatedAt = time.Now().UTC()
	ev.Status = domain.StatusPending

	if _, err := s.queue.InsertPending(ctx, &ev); err != nil {
		return nil, err
	}

	s.metrics.IncSubmitted()
	s.refreshQueueDepth(ctx)

	s.logger.Info("event submitted",
		slog.Int64("id", ev.ID),
		slog.String("name", ev.Name),
		slog.String("type", string(ev.Type)),
		slog.Bool("is_line", ev.Geometry.IsLine),
	)

	return &ev, nil
}

func (s *publicEventService) refreshQueueDepth(ctx context.Context) {
	depth, err := s.queue.CountPending(ctx)
	if err != nil {
		s.logger.Warn("queue depth refresh failed", slog.Any("error", err))
		return
	}
	s.metrics.SetQueueDepth(depth)
}
