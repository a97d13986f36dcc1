package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Struct validates `validate` tags on a request DTO and returns field
// messages keyed by JSON name. An empty map means the value is valid.
func Struct(s any) map[string]string {
	errs := make(map[string]string)

	err := validate.Struct(s)
	if err == nil {
		return errs
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		errs["_"] = err.Error()
		return errs
	}

	for _, fe := range ve {
		errs[fe.Field()] = fieldError(fe)
	}
	return errs
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required."
	case "email":
		return field + " must be a valid email address."
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", field, fe.Param())
	case "uuid":
		return field + " must be a valid id."
	default:
		return fmt.Sprintf("%s failed validation (%s).", field, fe.Tag())
	}
}
