package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bozylik/sa-es-map/internal/domain"
)

func RegisterCustomValidations(validate *validator.Validate) {
	validate.RegisterValidation("notblank", validateNotBlank)
	validate.RegisterValidation("eventtype", validateEventType)
	validate.RegisterValidation("timestamp", validateTimestamp)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateEventType(fl validator.FieldLevel) bool {
	return domain.EventType(fl.Field().String()).Valid()
}

func validateTimestamp(fl validator.FieldLevel) bool {
	_, err := domain.ParseTimestamp(fl.Field().String())
	return err == nil
}

// draftStructLevel covers the cross-field rules: start<end ordering and
// geometry completeness per isLine. Coordinates are deliberately not
// range-checked against the 0-100 map percentage space; the client has
// always been free to place markers off-map.
func draftStructLevel(sl validator.StructLevel) {
	d := sl.Current().Interface().(domain.EventDraft)

	start, startErr := domain.ParseTimestamp(d.Start)
	end, endErr := domain.ParseTimestamp(d.End)
	if startErr == nil && endErr == nil && !start.Before(end) {
		sl.ReportError(d.Start, "start", "Start", "startbeforeend", "")
	}

	if d.IsLine {
		if d.X1 == nil {
			sl.ReportError(d.X1, "x1", "X1", "coord", "")
		}
		if d.Y1 == nil {
			sl.ReportError(d.Y1, "y1", "Y1", "coord", "")
		}
		if d.X2 == nil {
			sl.ReportError(d.X2, "x2", "X2", "coord", "")
		}
		if d.Y2 == nil {
			sl.ReportError(d.Y2, "y2", "Y2", "coord", "")
		}
	} else {
		if d.X == nil {
			sl.ReportError(d.X, "x", "X", "coord", "")
		}
		if d.Y == nil {
			sl.ReportError(d.Y, "y", "Y", "coord", "")
		}
	}
}
