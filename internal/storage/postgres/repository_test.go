//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bozylik/sa-es-map/internal/domain"
	"github.com/bozylik/sa-es-map/pkg/e"
)

var (
	testPool *pgxpool.Pool
	tc       testcontainers.Container
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	user := "postgres"
	pass := "postgres"
	db := "postgres"

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": pass,
			"POSTGRES_DB":       db,
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(90 * time.Second),
	}

	var err error
	tc, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Println("cannot start container:", err)
		os.Exit(1)
	}

	host, _ := tc.Host(ctx)
	mappedPort, _ := tc.MappedPort(ctx, "5432/tcp")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, pass, host, mappedPort.Port(), db)

	testPool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Println("pgxpool.New:", err)
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	if err := testPool.Ping(ctx); err != nil {
		fmt.Println("pool.Ping:", err)
		testPool.Close()
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	if _, err := testPool.Exec(ctx, schema); err != nil {
		fmt.Println("schema:", err)
		testPool.Close()
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	code := m.Run()

	testPool.Close()
	_ = tc.Terminate(ctx)
	os.Exit(code)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func truncateEvents(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(), `TRUNCATE TABLE events RESTART IDENTITY`)
	if err != nil {
		t.Fatalf("truncate events: %v", err)
	}
}

func pendingEvent(name string, end time.Time) *domain.Event {
	return &domain.Event{
		Name:      name,
		Type:      domain.TypeGovernment,
		Start:     end.Add(-24 * time.Hour),
		End:       end,
		Geometry:  domain.PointGeometry(10, 20),
		CreatedAt: time.Now().UTC(),
	}
}

func submitPending(t *testing.T, queue *QueueStore, name string, end time.Time) int64 {
	t.Helper()
	id, err := queue.InsertPending(context.Background(), pendingEvent(name, end))
	if err != nil {
		t.Fatalf("InsertPending: %v", err)
	}
	return id
}

func TestQueueStore_InsertPending_ForcesPending(t *testing.T) {
	truncateEvents(t)

	queue := NewQueueStore(testPool, testLogger())

	ev := pendingEvent("Checkpoint", time.Now().UTC().Add(time.Hour))
	ev.Status = domain.StatusApproved // must be ignored

	id, err := queue.InsertPending(context.Background(), ev)
	if err != nil {
		t.Fatalf("InsertPending: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected assigned id")
	}
	if ev.Status != domain.StatusPending {
		t.Fatalf("expected status forced to pending, got %q", ev.Status)
	}

	list, err := queue.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != id || list[0].Status != domain.StatusPending {
		t.Fatalf("unexpected queue: %+v", list)
	}
}

func TestEventStore_ListApproved_ExcludesPending(t *testing.T) {
	truncateEvents(t)

	events := NewEventStore(testPool, testLogger())
	queue := NewQueueStore(testPool, testLogger())

	submitPending(t, queue, "still pending", time.Now().UTC().Add(time.Hour))
	approvedID := submitPending(t, queue, "published", time.Now().UTC().Add(time.Hour))

	if _, err := queue.Approve(context.Background(), approvedID); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	list, err := events.ListApproved(context.Background())
	if err != nil {
		t.Fatalf("ListApproved: %v", err)
	}
	if len(list) != 1 || list[0].ID != approvedID {
		t.Fatalf("expected only the approved event, got %+v", list)
	}
	if list[0].Geometry.Point == nil || list[0].Geometry.Point.X != 10 {
		t.Fatalf("geometry did not round-trip: %+v", list[0].Geometry)
	}
}

func TestEventStore_ListApprovedByType(t *testing.T) {
	truncateEvents(t)

	events := NewEventStore(testPool, testLogger())
	queue := NewQueueStore(testPool, testLogger())

	govID := submitPending(t, queue, "gov", time.Now().UTC().Add(time.Hour))
	if _, err := queue.Approve(context.Background(), govID); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	civ := pendingEvent("civ", time.Now().UTC().Add(time.Hour))
	civ.Type = domain.TypeCivilian
	civID, err := queue.InsertPending(context.Background(), civ)
	if err != nil {
		t.Fatalf("InsertPending: %v", err)
	}
	if _, err := queue.Approve(context.Background(), civID); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	list, err := events.ListApprovedByType(context.Background(), domain.TypeCivilian)
	if err != nil {
		t.Fatalf("ListApprovedByType: %v", err)
	}
	if len(list) != 1 || list[0].ID != civID {
		t.Fatalf("expected only the civilian event, got %+v", list)
	}
}

func TestQueueStore_Approve_PreservesID_SecondCallNotFound(t *testing.T) {
	truncateEvents(t)

	queue := NewQueueStore(testPool, testLogger())

	id := submitPending(t, queue, "Checkpoint", time.Now().UTC().Add(time.Hour))

	ev, err := queue.Approve(context.Background(), id)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if ev.ID != id {
		t.Fatalf("approve must preserve the id: got %d want %d", ev.ID, id)
	}
	if ev.Status != domain.StatusApproved {
		t.Fatalf("expected approved, got %q", ev.Status)
	}

	if _, err := queue.Approve(context.Background(), id); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("second approve: expected ErrNotFound, got %v", err)
	}
}

func TestQueueStore_Reject_RemovesRow(t *testing.T) {
	truncateEvents(t)

	queue := NewQueueStore(testPool, testLogger())

	id := submitPending(t, queue, "spam", time.Now().UTC().Add(time.Hour))

	if err := queue.Reject(context.Background(), id, "off the map"); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	list, err := queue.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty queue after reject, got %+v", list)
	}

	if err := queue.Reject(context.Background(), id, "again"); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a rejected id, got %v", err)
	}
}

func TestEventStore_Update_OnlyApproved(t *testing.T) {
	truncateEvents(t)

	events := NewEventStore(testPool, testLogger())
	queue := NewQueueStore(testPool, testLogger())

	id := submitPending(t, queue, "Checkpoint", time.Now().UTC().Add(time.Hour))

	ev := pendingEvent("renamed", time.Now().UTC().Add(2*time.Hour))

	// still pending: not editable through the public event store
	if err := events.Update(context.Background(), id, ev); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a pending event, got %v", err)
	}

	if _, err := queue.Approve(context.Background(), id); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if err := events.Update(context.Background(), id, ev); err != nil {
		t.Fatalf("Update: %v", err)
	}

	list, err := events.ListApproved(context.Background())
	if err != nil {
		t.Fatalf("ListApproved: %v", err)
	}
	if len(list) != 1 || list[0].Name != "renamed" {
		t.Fatalf("unexpected row after update: %+v", list)
	}
}

func TestEventStore_Delete_NotIdempotent(t *testing.T) {
	truncateEvents(t)

	events := NewEventStore(testPool, testLogger())
	queue := NewQueueStore(testPool, testLogger())

	id := submitPending(t, queue, "Checkpoint", time.Now().UTC().Add(time.Hour))
	if _, err := queue.Approve(context.Background(), id); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	if err := events.Delete(context.Background(), id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := events.Delete(context.Background(), id); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestEventStore_DeleteExpired_SkipsPending(t *testing.T) {
	truncateEvents(t)

	events := NewEventStore(testPool, testLogger())
	queue := NewQueueStore(testPool, testLogger())

	now := time.Now().UTC()

	expiredID := submitPending(t, queue, "over", now.Add(-time.Hour))
	if _, err := queue.Approve(context.Background(), expiredID); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	liveID := submitPending(t, queue, "ongoing", now.Add(time.Hour))
	if _, err := queue.Approve(context.Background(), liveID); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	// pending events never expire, however old
	submitPending(t, queue, "stale but pending", now.Add(-time.Hour))

	removed, err := events.DeleteExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}

	list, err := events.ListApproved(context.Background())
	if err != nil {
		t.Fatalf("ListApproved: %v", err)
	}
	if len(list) != 1 || list[0].ID != liveID {
		t.Fatalf("expected only the live event, got %+v", list)
	}

	pending, err := queue.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("sweep must not touch the queue, got %+v", pending)
	}
}

func TestEventStore_Insert_IsApprovedImmediately(t *testing.T) {
	truncateEvents(t)

	events := NewEventStore(testPool, testLogger())

	ev := pendingEvent("seeded", time.Now().UTC().Add(time.Hour))
	id, err := events.Insert(context.Background(), ev)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected assigned id")
	}
	if ev.Status != domain.StatusApproved {
		t.Fatalf("expected status approved, got %q", ev.Status)
	}

	list, err := events.ListApproved(context.Background())
	if err != nil {
		t.Fatalf("ListApproved: %v", err)
	}
	if len(list) != 1 || list[0].ID != id {
		t.Fatalf("expected the seeded event published, got %+v", list)
	}
}

func TestQueueStore_CountPending(t *testing.T) {
	truncateEvents(t)

	queue := NewQueueStore(testPool, testLogger())

	submitPending(t, queue, "one", time.Now().UTC().Add(time.Hour))
	submitPending(t, queue, "two", time.Now().UTC().Add(time.Hour))

	count, err := queue.CountPending(context.Background())
	if err != nil {
		t.Fatalf("CountPending: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 pending, got %d", count)
	}
}
