// internal/app/system/inputval/inputval.go
// Package inputval validates decoded request bodies with struct tags and
// turns failures into a field → message map suitable for a 422 response.
package inputval

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a JSON field name to a human-readable message.
type Errors map[string]string

// Add records msg for field unless the field already has a message.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Messages overrides the default text for a failing rule. Keys have the
// form "field.tag", e.g. "password.min".
type Messages map[string]string

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON names so error keys line up with request fields.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Struct validates s. It returns nil when every rule passes. Only the first
// failing rule of each field is reported.
func Struct(s any, msgs Messages) Errors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// InvalidValidationError means a programming mistake (non-struct).
		return Errors{"_": err.Error()}
	}

	out := Errors{}
	for _, fe := range verrs {
		field := fe.Field()
		if m, ok := msgs[field+"."+fe.Tag()]; ok {
			out.Add(field, m)
			continue
		}
		out.Add(field, defaultMessage(fe))
	}
	return out
}

func defaultMessage(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", field, fe.Param())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("The %s field does not match.", field)
	case "mongodb":
		return fmt.Sprintf("The selected %s is invalid.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
