// Package schema checks the shape of every task command payload before it
// reaches the store. Checks are pure and report the first violated rule.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var ErrValidation = errors.New("validation error")

// Error is a rejected payload. Message is human readable and safe to return
// to callers.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	return target == ErrValidation
}

var (
	dateRe     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dateTimeRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Canonical 8-4-4-4-12 form only; uuid.Parse alone also takes braces and urn prefixes.
	v.RegisterValidation("taskid", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != 36 {
			return false
		}
		_, err := uuid.Parse(s)
		return err == nil
	})

	v.RegisterValidation("duedate", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return dateRe.MatchString(s) || dateTimeRe.MatchString(s)
	})

	return v
}

// Decode reads a JSON payload into dst. Type mismatches come back as *Error
// so callers treat them like any other rejected payload.
func Decode(data []byte, dst any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &Error{Message: "payload is required"}
	}

	if err := json.Unmarshal(trimmed, dst); err != nil {
		var verr *Error
		if errors.As(err, &verr) {
			return verr
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &Error{
				Field:   typeErr.Field,
				Message: fmt.Sprintf("%s must be %s", typeErr.Field, kindName(typeErr.Type)),
			}
		}
		return &Error{Message: fmt.Sprintf("invalid json: %v", err)}
	}
	return nil
}

func kindName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.String:
		return "a string"
	case reflect.Struct, reflect.Map:
		return "an object"
	default:
		return "a " + t.String()
	}
}

// check validates in and converts the first failure into *Error. overrides
// maps "field.tag" to a custom message.
func check(in any, overrides map[string]string) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return &Error{Message: err.Error()}
	}

	fe := ves[0]
	return &Error{Field: fe.Field(), Message: message(fe, overrides)}
}

func message(fe validator.FieldError, overrides map[string]string) string {
	if m, ok := overrides[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}

	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "taskid":
		return field + " must be a valid UUID"
	case "duedate":
		return "Must be a valid date (YYYY-MM-DD) or datetime format"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must contain at least %s character(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must contain at most %s character(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}
