package domain

import (
	"errors"
	"strings"
	"time"
)

// EventDraft is the client submission payload: no id, no status, no
// createdAt. The same shape serves PUT updates (id comes from the URL).
type EventDraft struct {
	Name        string   `json:"name" validate:"notblank"`
	Type        string   `json:"type" validate:"eventtype"`
	Start       string   `json:"start" validate:"timestamp"`
	End         string   `json:"end" validate:"timestamp"`
	Description string   `json:"description"`
	X           *float64 `json:"x"`
	Y           *float64 `json:"y"`
	X1          *float64 `json:"x1"`
	Y1          *float64 `json:"y1"`
	X2          *float64 `json:"x2"`
	Y2          *float64 `json:"y2"`
	IsLine      bool     `json:"isLine"`
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

var ErrBadTimestamp = errors.New("unparseable timestamp")

// ParseTimestamp accepts the formats the map client is known to send:
// RFC3339, datetime-local values and bare dates. Everything is UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrBadTimestamp
}

// ToEvent converts a draft that already passed validation. It must not
// be called on an unvalidated draft: parse errors are swallowed here.
func (d EventDraft) ToEvent() Event {
	start, _ := ParseTimestamp(d.Start)
	end, _ := ParseTimestamp(d.End)

	ev := Event{
		Name:        strings.TrimSpace(d.Name),
		Type:        EventType(d.Type),
		Start:       start,
		End:         end,
		Description: d.Description,
	}
	if d.IsLine {
		ev.Geometry = LineGeometry(*d.X1, *d.Y1, *d.X2, *d.Y2)
	} else {
		ev.Geometry = PointGeometry(*d.X, *d.Y)
	}
	return ev
}

type RejectRequest struct {
	Reason string `json:"reason"`
}
