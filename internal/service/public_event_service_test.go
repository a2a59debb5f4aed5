package service_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/bozylik/sa-es-map/internal/domain"
	"github.com/bozylik/sa-es-map/internal/service"
	mock_service "github.com/bozylik/sa-es-map/internal/service/mocks"
	"github.com/bozylik/sa-es-map/pkg/e"
)

// --- helpers ---

func f64ptr(v float64) *float64 { return &v }

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func validPointDraft() domain.EventDraft {
	return domain.EventDraft{
		Name:  "Checkpoint near Grove Street",
		Type:  "government",
		Start: "2025-01-01T10:00:00Z",
		End:   "2025-01-02T10:00:00Z",
		X:     f64ptr(10),
		Y:     f64ptr(20),
	}
}

func validLineDraft() domain.EventDraft {
	return domain.EventDraft{
		Name:   "Road closure",
		Type:   "incident",
		Start:  "2025-01-01",
		End:    "2025-01-03",
		IsLine: true,
		X1:     f64ptr(5),
		Y1:     f64ptr(5),
		X2:     f64ptr(45),
		Y2:     f64ptr(60),
	}
}

// --- Submit ---

func TestPublicEventService_Submit_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	events := mock_service.NewMockEventRepository(ctrl)
	queue := mock_service.NewMockQueueRepository(ctrl)

	var got *domain.Event
	queue.EXPECT().
		InsertPending(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ev *domain.Event) (int64, error) {
			ev.ID = 7
			got = ev
			return 7, nil
		}).
		Times(1)
	queue.EXPECT().
		CountPending(gomock.Any()).
		Return(int64(1), nil).
		Times(1)

	svc := service.NewPublicEventService(events, queue, nil, nil, newTestLogger())

	ev, err := svc.Submit(context.Background(), validPointDraft())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ev.ID != 7 {
		t.Fatalf("expected assigned id 7, got %d", ev.ID)
	}
	if ev.Status != domain.StatusPending {
		t.Fatalf("expected status pending, got %q", ev.Status)
	}
	if ev.CreatedAt.IsZero() {
		t.Fatalf("expected CreatedAt to be set")
	}
	if got.Geometry.IsLine || got.Geometry.Point == nil {
		t.Fatalf("expected point geometry, got %+v", got.Geometry)
	}
	if got.Geometry.Point.X != 10 || got.Geometry.Point.Y != 20 {
		t.Fatalf("geometry mismatch: %+v", got.Geometry.Point)
	}
}

func TestPublicEventService_Submit_Line_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	events := mock_service.NewMockEventRepository(ctrl)
	queue := mock_service.NewMockQueueRepository(ctrl)

	queue.EXPECT().
		InsertPending(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ev *domain.Event) (int64, error) {
			if !ev.Geometry.IsLine || ev.Geometry.Line == nil {
				t.Fatalf("expected line geometry, got %+v", ev.Geometry)
			}
			ev.ID = 1
			return 1, nil
		}).
		Times(1)
	queue.EXPECT().CountPending(gomock.Any()).Return(int64(1), nil).Times(1)

	svc := service.NewPublicEventService(events, queue, nil, nil, newTestLogger())

	if _, err := svc.Submit(context.Background(), validLineDraft()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestPublicEventService_Submit_CollectsAllViolations(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	events := mock_service.NewMockEventRepository(ctrl)
	queue := mock_service.NewMockQueueRepository(ctrl)
	// no InsertPending expected: validation must fail before any write

	svc := service.NewPublicEventService(events, queue, nil, nil, newTestLogger())

	draft := domain.EventDraft{
		Name:   "   ",
		Type:   "party",
		Start:  "2025-01-02",
		End:    "2025-01-01",
		IsLine: true,
		X1:     f64ptr(1),
		Y1:     f64ptr(2),
		// x2, y2 missing
	}

	_, err := svc.Submit(context.Background(), draft)
	if err == nil {
		t.Fatalf("expected validation error")
	}

	var verr *e.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *e.ValidationError, got %T: %v", err, err)
	}

	fields := map[string]bool{}
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}
	for _, want := range []string{"name", "type", "start", "x2", "y2"} {
		if !fields[want] {
			t.Fatalf("expected violation on %q, got %+v", want, verr.Fields)
		}
	}
}

func TestPublicEventService_Submit_RepoError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	events := mock_service.NewMockEventRepository(ctrl)
	queue := mock_service.NewMockQueueRepository(ctrl)

	wantErr := errors.New("db down")
	queue.EXPECT().
		InsertPending(gomock.Any(), gomock.Any()).
		Return(int64(0), wantErr).
		Times(1)

	svc := service.NewPublicEventService(events, queue, nil, nil, newTestLogger())

	if _, err := svc.Submit(context.Background(), validPointDraft()); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

// --- ListApproved ---

func TestPublicEventService_ListApproved_CacheHit(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	events := mock_service.NewMockEventRepository(ctrl)
	queue := mock_service.NewMockQueueRepository(ctrl)
	cache := mock_service.NewMockEventCache(ctrl)

	cached := []*domain.Event{{ID: 1, Name: "cached", Status: domain.StatusApproved}}
	cache.EXPECT().GetApproved(gomock.Any()).Return(cached, nil).Times(1)
	// repo must not be hit

	svc := service.NewPublicEventService(events, queue, cache, nil, newTestLogger())

	got, err := svc.ListApproved(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestPublicEventService_ListApproved_CacheMissFallsBack(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	events := mock_service.NewMockEventRepository(ctrl)
	queue := mock_service.NewMockQueueRepository(ctrl)
	cache := mock_service.NewMockEventCache(ctrl)

	fromDB := []*domain.Event{{ID: 2, Status: domain.StatusApproved}}
	cache.EXPECT().GetApproved(gomock.Any()).Return(nil, nil).Times(1)
	events.EXPECT().ListApproved(gomock.Any()).Return(fromDB, nil).Times(1)
	cache.EXPECT().SetApproved(gomock.Any(), fromDB).Return(nil).Times(1)

	svc := service.NewPublicEventService(events, queue, cache, nil, newTestLogger())

	got, err := svc.ListApproved(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestPublicEventService_ListApproved_CacheErrorFallsBack(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	events := mock_service.NewMockEventRepository(ctrl)
	queue := mock_service.NewMockQueueRepository(ctrl)
	cache := mock_service.NewMockEventCache(ctrl)

	cache.EXPECT().GetApproved(gomock.Any()).Return(nil, errors.New("redis down")).Times(1)
	events.EXPECT().ListApproved(gomock.Any()).Return([]*domain.Event{}, nil).Times(1)
	cache.EXPECT().SetApproved(gomock.Any(), gomock.Any()).Return(errors.New("redis down")).Times(1)

	svc := service.NewPublicEventService(events, queue, cache, nil, newTestLogger())

	if _, err := svc.ListApproved(context.Background()); err != nil {
		t.Fatalf("cache failure must not surface: %v", err)
	}
}

// --- ListApprovedByType ---

func TestPublicEventService_ListApprovedByType_InvalidType(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	events := mock_service.NewMockEventRepository(ctrl)
	queue := mock_service.NewMockQueueRepository(ctrl)

	svc := service.NewPublicEventService(events, queue, nil, nil, newTestLogger())

	_, err := svc.ListApprovedByType(context.Background(), "festival")
	if !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPublicEventService_ListApprovedByType_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	events := mock_service.NewMockEventRepository(ctrl)
	queue := mock_service.NewMockQueueRepository(ctrl)

	want := []*domain.Event{{ID: 3, Type: domain.TypeCivilian, Status: domain.StatusApproved}}
	events.EXPECT().
		ListApprovedByType(gomock.Any(), domain.TypeCivilian).
		Return(want, nil).
		Times(1)

	svc := service.NewPublicEventService(events, queue, nil, nil, newTestLogger())

	got, err := svc.ListApprovedByType(context.Background(), "civilian")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("unexpected result: %+v", got)
	}
}
