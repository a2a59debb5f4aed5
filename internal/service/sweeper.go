package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/bozylik/sa-es-map/internal/config"
	"github.com/bozylik/sa-es-map/internal/metrics"
)

// Sweeper retires approved events whose end time has passed. Two
// triggers: a short fixed interval and a daily run at a configured
// wall-clock hour in a fixed-offset zone (04:00 UTC+3 by default).
// Sweeps are best-effort: failures are logged and the next run proceeds
// regardless.
type Sweeper struct {
	events  EventRepository
	cache   EventCache
	metrics *metrics.ModerationMetrics
	logger  *slog.Logger
	cfg     config.SweepConfig
	now     func() time.Time
}

func NewSweeper(
	events EventRepository,
	cache EventCache,
	m *metrics.ModerationMetrics,
	logger *slog.Logger,
	cfg config.SweepConfig,
) *Sweeper {
	return &Sweeper{
		events:  events,
		cache:   cache,
		metrics: m,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
}

func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	// The daily delay is recomputed from the wall clock every time, so
	// restarts never need a persisted "next run" timestamp.
	daily := time.NewTimer(NextDailyDelay(s.now(), s.cfg.DailyHour, s.cfg.UTCOffset))
	defer daily.Stop()

	s.logger.Info("expiry sweeper started",
		slog.Duration("interval", s.cfg.Interval),
		slog.Int("daily_hour", s.cfg.DailyHour),
		slog.Int("utc_offset", s.cfg.UTCOffset),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("expiry sweeper stopped", slog.String("reason", ctx.Err().Error()))
			return
		case <-ticker.C:
			s.Sweep(ctx)
		case <-daily.C:
			s.Sweep(ctx)
			daily.Reset(NextDailyDelay(s.now(), s.cfg.DailyHour, s.cfg.UTCOffset))
		}
	}
}

// Sweep runs one expiry pass. Exported so a run can also be forced at
// startup.
func (s *Sweeper) Sweep(ctx context.Context) {
	removed, err := s.events.DeleteExpired(ctx, s.now())
	if err != nil {
		s.logger.Error("expiry sweep failed", slog.Any("error", err))
		return
	}
	if removed == 0 {
		return
	}

	s.metrics.AddExpired(removed)
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("event cache invalidation failed after sweep", slog.Any("error", err))
		}
	}
	s.logger.Info("expired events removed", slog.Int64("count", removed))
}

// NextDailyDelay computes how long to sleep until the next occurrence
// of the target hour on the wall clock of the fixed zone utcOffset
// hours east of UTC.
func NextDailyDelay(now time.Time, hour, utcOffset int) time.Duration {
	zone := time.FixedZone("sweep", utcOffset*3600)
	local := now.In(zone)

	next := time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, zone)
	if next.Before(local) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(local)
}
