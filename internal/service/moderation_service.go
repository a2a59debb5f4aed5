package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bozylik/sa-es-map/internal/domain"
	"github.com/bozylik/sa-es-map/internal/metrics"
	"github.com/bozylik/sa-es-map/pkg/validator"
)

type moderationService struct {
	events  EventRepository
	queue   QueueRepository
	cache   EventCache
	metrics *metrics.ModerationMetrics
	logger  *slog.Logger
}

func NewModerationService(
	events EventRepository,
	queue QueueRepository,
	cache EventCache,
	m *metrics.ModerationMetrics,
	logger *slog.Logger,
) ModerationService {
	return &moderationService{
		events:  events,
		queue:   queue,
		cache:   cache,
		metrics: m,
		logger:  logger,
	}
}

func (s *moderationService) ListQueue(ctx context.Context) ([]*domain.Event, error) {
	return s.queue.List(ctx)
}

// Approve flips pending->approved. The transition is terminal: a second
// approve on the same id returns ErrNotFound from the store, never a
// second published copy.
func (s *moderationService) Approve(ctx context.Context, id int64) (*domain.Event, error) {
	ev, err := s.queue.Approve(ctx, id)
	if err != nil {
		return nil, err
	}

	s.metrics.IncApproved()
	s.refreshQueueDepth(ctx)
	s.invalidateCache(ctx)

	s.logger.Info("event approved",
		slog.Int64("id", ev.ID),
		slog.String("name", ev.Name),
	)

	return ev, nil
}

// Reject records the reason (or the default sentinel when blank) and
// removes the submission. The caller gets the recorded reason back.
func (s *moderationService) Reject(ctx context.Context, id int64, reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = domain.RejectionDefaultReason
	}

	if err := s.queue.Reject(ctx, id, reason); err != nil {
		return "", err
	}

	s.metrics.IncRejected()
	s.refreshQueueDepth(ctx)

	s.logger.Info("event rejected",
		slog.Int64("id", id),
		slog.String("reason", reason),
	)

	return reason, nil
}

func (s *moderationService) Update(ctx context.Context, id int64, draft domain.EventDraft) error {
	if err := validator.ValidateDraft(draft); err != nil {
		return err
	}

	ev := draft.ToEvent()
	if err := s.events.Update(ctx, id, &ev); err != nil {
		return err
	}

	s.invalidateCache(ctx)
	return nil
}

func (s *moderationService) Delete(ctx context.Context, id int64) error {
	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCache(ctx)
	s.logger.Info("event deleted", slog.Int64("id", id))
	return nil
}

func (s *moderationService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("event cache invalidation failed", slog.Any("error", err))
	}
}

func (s *moderationService) refreshQueueDepth(ctx context.Context) {
	depth, err := s.queue.CountPending(ctx)
	if err != nil {
		s.logger.Warn("queue depth refresh failed", slog.Any("error", err))
		return
	}
	s.metrics.SetQueueDepth(depth)
}
