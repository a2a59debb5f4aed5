package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bozylik/sa-es-map/internal/domain"
	"github.com/bozylik/sa-es-map/pkg/e"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// report wire field names, not Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	RegisterCustomValidations(validate)
	validate.RegisterStructValidation(draftStructLevel, domain.EventDraft{})
}

// ValidateDraft checks every rule and returns all violations at once,
// so the client can surface them together.
func ValidateDraft(d domain.EventDraft) error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return e.Wrap("validator.ValidateDraft", err)
	}

	out := &e.ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, e.FieldError{
			Field:  fe.Field(),
			Reason: reason(fe),
		})
	}
	return out
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank":
		return "is required"
	case "eventtype":
		return "must be one of: government, civilian, incident"
	case "timestamp":
		return "must be a parseable timestamp"
	case "startbeforeend":
		return "start must be before end"
	case "coord":
		return "coordinate is required for this geometry"
	default:
		return "is invalid"
	}
}
