// Package validation wraps go-playground/validator and turns field errors
// into a single fault.Validation whose message lists every failing field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/book-api/internal/fault"
)

// Validator satisfies echo.Validator so handlers can call c.Validate.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator that reports fields by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Validate checks s and returns a *fault.Error of KindValidation listing all
// field failures, or nil.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var fes validator.ValidationErrors
	if !errors.As(err, &fes) {
		return fault.Wrap(fault.KindValidation, "Validation failed.", err)
	}
	msgs := make([]string, 0, len(fes))
	for _, fe := range fes {
		msgs = append(msgs, message(fe))
	}
	return fault.Wrap(fault.KindValidation, strings.Join(msgs, " "), err)
}

func message(fe validator.FieldError) string {
	numeric := false
	switch fe.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		numeric = true
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "min", "gte":
		if numeric {
			return fmt.Sprintf("The field %s must be at least %s.", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("The field %s must be at least %s characters long.", fe.Field(), fe.Param())
	case "max", "lte":
		if numeric {
			return fmt.Sprintf("The field %s must be at most %s.", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("The field %s must be at most %s characters long.", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("The %s field is not a valid e-mail address.", fe.Field())
	case "gt":
		return fmt.Sprintf("The field %s must be greater than %s.", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("The field %s is invalid.", fe.Field())
}
