package shared

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that reports fields by their json tag,
// so validator output lands on the same keys as upstream field errors.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		tag := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if tag == "-" || tag == "" {
			return field.Name
		}
		return tag
	})
	return v
}

// ValidateStruct runs tag validation and converts the result into the
// unified FieldErrors shape, one message per field.
func ValidateStruct(v *validator.Validate, s any) FieldErrors {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	fe := FieldErrors{}
	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		fe.Add("_", "invalid request")
		return fe
	}
	for _, ve := range verr {
		fe.Add(FieldKey(ve.Field()), messageForTag(ve))
	}
	return fe
}

func messageForTag(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return ve.Field() + " is required"
	case "gte":
		return ve.Field() + " must be at least " + ve.Param()
	case "gt":
		return ve.Field() + " must be greater than " + ve.Param()
	case "max":
		return ve.Field() + " must be at most " + ve.Param() + " characters"
	default:
		return ve.Field() + " is invalid"
	}
}
