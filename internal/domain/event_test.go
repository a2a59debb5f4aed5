package domain_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/bozylik/sa-es-map/internal/domain"
)

func TestEventMarshal_PointWireShape(t *testing.T) {
	t.Parallel()

	ev := domain.Event{
		ID:        1,
		Name:      "Checkpoint",
		Type:      domain.TypeGovernment,
		Start:     time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
		End:       time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC),
		Geometry:  domain.PointGeometry(10, 20),
		Status:    domain.StatusApproved,
		CreatedAt: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	}

	b, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}

	if raw["isLine"] != false {
		t.Fatalf("isLine must serialize as a boolean false, got %v", raw["isLine"])
	}
	if raw["x"] != 10.0 || raw["y"] != 20.0 {
		t.Fatalf("point coords mismatch: x=%v y=%v", raw["x"], raw["y"])
	}
	for _, key := range []string{"x1", "y1", "x2", "y2"} {
		if raw[key] != nil {
			t.Fatalf("unused slot %q must be null, got %v", key, raw[key])
		}
	}
	if raw["status"] != "approved" {
		t.Fatalf("status mismatch: %v", raw["status"])
	}
	if _, ok := raw["rejectionReason"]; ok {
		t.Fatalf("rejectionReason must be omitted when empty")
	}
}

func TestEventMarshal_LineWireShape(t *testing.T) {
	t.Parallel()

	ev := domain.Event{
		ID:        2,
		Name:      "Road closure",
		Type:      domain.TypeIncident,
		Start:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
		Geometry:  domain.LineGeometry(5, 5, 45, 60),
		Status:    domain.StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	b, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}

	if raw["isLine"] != true {
		t.Fatalf("isLine must serialize as a boolean true, got %v", raw["isLine"])
	}
	if raw["x1"] != 5.0 || raw["y1"] != 5.0 || raw["x2"] != 45.0 || raw["y2"] != 60.0 {
		t.Fatalf("line coords mismatch: %v %v %v %v", raw["x1"], raw["y1"], raw["x2"], raw["y2"])
	}
	if raw["x"] != nil || raw["y"] != nil {
		t.Fatalf("point slots must be null on a line event")
	}
}

func TestEventUnmarshal_RoundTrip(t *testing.T) {
	t.Parallel()

	src := domain.Event{
		ID:        7,
		Name:      "Meetup",
		Type:      domain.TypeCivilian,
		Start:     time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC),
		End:       time.Date(2025, 3, 1, 21, 0, 0, 0, time.UTC),
		Geometry:  domain.PointGeometry(33.5, 66.25),
		Status:    domain.StatusApproved,
		CreatedAt: time.Date(2025, 2, 28, 12, 0, 0, 0, time.UTC),
	}

	b, err := json.Marshal(src)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got domain.Event
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.ID != src.ID || got.Name != src.Name || got.Type != src.Type {
		t.Fatalf("fields mismatch: got=%+v", got)
	}
	if !got.Start.Equal(src.Start) || !got.End.Equal(src.End) {
		t.Fatalf("times mismatch: got start=%v end=%v", got.Start, got.End)
	}
	if got.Geometry.Point == nil || *got.Geometry.Point != *src.Geometry.Point {
		t.Fatalf("geometry mismatch: %+v", got.Geometry)
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025-01-01T10:00:00Z", time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2025-01-01T10:00:00", time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2025-01-01T10:00", time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"2025-01-01", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"  2025-01-01  ", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, c := range cases {
		got, err := domain.ParseTimestamp(c.in)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q): %v", c.in, err)
		}
		if !got.Equal(c.want) {
			t.Fatalf("ParseTimestamp(%q) = %v, want %v", c.in, got, c.want)
		}
	}

	for _, bad := range []string{"", "tomorrow", "01/02/2025"} {
		if _, err := domain.ParseTimestamp(bad); err == nil {
			t.Fatalf("ParseTimestamp(%q): expected error", bad)
		}
	}
}

func TestDraftToEvent_TrimsName(t *testing.T) {
	t.Parallel()

	x, y := 1.0, 2.0
	draft := domain.EventDraft{
		Name:  "  Meetup  ",
		Type:  "civilian",
		Start: "2025-01-01",
		End:   "2025-01-02",
		X:     &x,
		Y:     &y,
	}

	ev := draft.ToEvent()
	if ev.Name != "Meetup" {
		t.Fatalf("expected trimmed name, got %q", ev.Name)
	}
	if strings.TrimSpace(ev.Name) != ev.Name {
		t.Fatalf("name not trimmed: %q", ev.Name)
	}
}
