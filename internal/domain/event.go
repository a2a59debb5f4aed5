package domain

import (
	"encoding/json"
	"time"
)

type EventStatus string

const (
	StatusPending  EventStatus = "pending"
	StatusApproved EventStatus = "approved"
	StatusRejected EventStatus = "rejected"
)

type EventType string

const (
	TypeGovernment EventType = "government"
	TypeCivilian   EventType = "civilian"
	TypeIncident   EventType = "incident"
)

func (t EventType) Valid() bool {
	switch t {
	case TypeGovernment, TypeCivilian, TypeIncident:
		return true
	}
	return false
}

// RejectionDefaultReason is recorded when the moderator gives no reason.
const RejectionDefaultReason = "not specified"

type Point struct {
	X float64
	Y float64
}

type Line struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

// Geometry is a tagged variant: exactly one of Point or Line is set,
// matching IsLine. Coordinates are percentages of the map's intrinsic
// size, not pixels.
type Geometry struct {
	IsLine bool
	Point  *Point
	Line   *Line
}

func PointGeometry(x, y float64) Geometry {
	return Geometry{Point: &Point{X: x, Y: y}}
}

func LineGeometry(x1, y1, x2, y2 float64) Geometry {
	return Geometry{IsLine: true, Line: &Line{X1: x1, Y1: y1, X2: x2, Y2: y2}}
}

type Event struct {
	ID              int64
	Name            string
	Type            EventType
	Start           time.Time
	End             time.Time
	Description     string
	Geometry        Geometry
	Status          EventStatus
	CreatedAt       time.Time
	RejectionReason string
}

// eventWire is the flat JSON shape the existing map client expects.
// Point events carry x/y, line events x1/y1/x2/y2; the unused slots
// serialize as null.
type eventWire struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	Type            EventType   `json:"type"`
	Start           string      `json:"start"`
	End             string      `json:"end"`
	Description     string      `json:"description"`
	X               *float64    `json:"x"`
	Y               *float64    `json:"y"`
	X1              *float64    `json:"x1"`
	Y1              *float64    `json:"y1"`
	X2              *float64    `json:"x2"`
	Y2              *float64    `json:"y2"`
	IsLine          bool        `json:"isLine"`
	Status          EventStatus `json:"status"`
	CreatedAt       string      `json:"createdAt"`
	RejectionReason string      `json:"rejectionReason,omitempty"`
}

func (e Event) MarshalJSON() ([]byte, error) {
	w := eventWire{
		ID:              e.ID,
		Name:            e.Name,
		Type:            e.Type,
		Start:           e.Start.UTC().Format(time.RFC3339),
		End:             e.End.UTC().Format(time.RFC3339),
		Description:     e.Description,
		IsLine:          e.Geometry.IsLine,
		Status:          e.Status,
		CreatedAt:       e.CreatedAt.UTC().Format(time.RFC3339),
		RejectionReason: e.RejectionReason,
	}
	if p := e.Geometry.Point; p != nil {
		w.X, w.Y = &p.X, &p.Y
	}
	if l := e.Geometry.Line; l != nil {
		w.X1, w.Y1 = &l.X1, &l.Y1
		w.X2, w.Y2 = &l.X2, &l.Y2
	}
	return json.Marshal(w)
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var w eventWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	start, err := ParseTimestamp(w.Start)
	if err != nil {
		return err
	}
	end, err := ParseTimestamp(w.End)
	if err != nil {
		return err
	}
	var createdAt time.Time
	if w.CreatedAt != "" {
		if createdAt, err = ParseTimestamp(w.CreatedAt); err != nil {
			return err
		}
	}

	*e = Event{
		ID:              w.ID,
		Name:            w.Name,
		Type:            w.Type,
		Start:           start,
		End:             end,
		Description:     w.Description,
		Status:          w.Status,
		CreatedAt:       createdAt,
		RejectionReason: w.RejectionReason,
	}
	if w.IsLine {
		if w.X1 != nil && w.Y1 != nil && w.X2 != nil && w.Y2 != nil {
			e.Geometry = LineGeometry(*w.X1, *w.Y1, *w.X2, *w.Y2)
		} else {
			e.Geometry.IsLine = true
		}
	} else if w.X != nil && w.Y != nil {
		e.Geometry = PointGeometry(*w.X, *w.Y)
	}
	return nil
}
