package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Kind classifies why a field was rejected.
type Kind string

const (
	Required      Kind = "Required"
	InvalidFormat Kind = "InvalidFormat"
	InvalidValue  Kind = "InvalidValue"
	TooShort      Kind = "TooShort"
	TooLong       Kind = "TooLong"
	OutOfRange    Kind = "OutOfRange"
)

// FieldError is a single field-level failure.
type FieldError struct {
	Field   string `json:"field"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Errors is the list of failures of one payload. A nil Errors means the
// payload is valid.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether field failed with kind.
func (e Errors) Has(field string, kind Kind) bool {
	for _, fe := range e {
		if fe.Field == field && fe.Kind == kind {
			return true
		}
	}
	return false
}

var uuidPattern = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// IsIdentifier reports whether s is a canonical hyphenated UUID, in either
// case. URN, braced and hyphen-less forms are rejected.
func IsIdentifier(s string) bool {
	return uuidPattern.MatchString(s)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	// identifier accepts canonical UUIDs in either case
	if err := v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		return IsIdentifier(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("validation: register identifier: %v", err))
	}
	return v
}

type normalizer interface {
	normalize()
}

// Struct normalizes and validates a payload. v must be a pointer to one of the
// payload types of this package. Struct never returns anything but field
// failures: a value it cannot inspect is reported against the field "payload".
func Struct(v any) Errors {
	if n, ok := v.(normalizer); ok {
		n.normalize()
	}

	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{{Field: "payload", Kind: InvalidValue, Message: "payload is not valid"}}
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, translate(fe))
	}
	return out
}

func translate(fe validator.FieldError) FieldError {
	field := fe.Field()
	label := strings.ToLower(humanize(field))

	switch fe.Tag() {
	case "required":
		return FieldError{Field: field, Kind: Required, Message: fmt.Sprintf("%s is required", label)}
	case "email":
		return FieldError{Field: field, Kind: InvalidFormat, Message: "invalid email format"}
	case "identifier":
		return FieldError{Field: field, Kind: InvalidFormat, Message: fmt.Sprintf("invalid %s", label)}
	case "min":
		if fe.Param() == "1" {
			return FieldError{Field: field, Kind: TooShort, Message: fmt.Sprintf("%s should be at least one character", label)}
		}
		return FieldError{Field: field, Kind: TooShort, Message: fmt.Sprintf("%s should be at least %s characters", label, fe.Param())}
	case "max":
		return FieldError{Field: field, Kind: TooLong, Message: fmt.Sprintf("%s can't be more than %s characters", label, fe.Param())}
	case "oneof":
		return FieldError{Field: field, Kind: InvalidValue, Message: fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))}
	case "gte", "lte", "gt", "lt":
		return FieldError{Field: field, Kind: OutOfRange, Message: fmt.Sprintf("%s is out of range", label)}
	default:
		return FieldError{Field: field, Kind: InvalidValue, Message: fmt.Sprintf("%s is not valid", label)}
	}
}

// humanize turns a json field name like "formId" into "form id".
func humanize(field string) string {
	var sb strings.Builder
	for i, r := range field {
		if i > 0 && r >= 'A' && r <= 'Z' {
			sb.WriteByte(' ')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Rating checks an optional rating. Any finite number passes unless lo or hi
// bound it (inclusive).
func Rating(rating *float64, lo, hi *float64) *FieldError {
	if rating == nil {
		return nil
	}
	r := *rating
	outOfRange := func(message string) *FieldError {
		return &FieldError{Field: "rating", Kind: OutOfRange, Message: message}
	}
	switch {
	case math.IsNaN(r) || math.IsInf(r, 0):
		return outOfRange("rating must be a finite number")
	case lo != nil && hi != nil && (r < *lo || r > *hi):
		return outOfRange(fmt.Sprintf("rating must be between %v and %v", *lo, *hi))
	case lo != nil && r < *lo:
		return outOfRange(fmt.Sprintf("rating must be at least %v", *lo))
	case hi != nil && r > *hi:
		return outOfRange(fmt.Sprintf("rating must be at most %v", *hi))
	}
	return nil
}
