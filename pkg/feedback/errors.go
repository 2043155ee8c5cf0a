package feedback

import (
	"context"
	"errors"
	"fmt"

	"github.com/doodlesbykumbi/feedbox/pkg/identity"
	"github.com/doodlesbykumbi/feedbox/pkg/server/store"
	"github.com/doodlesbykumbi/feedbox/pkg/validation"
)

var (
	// ErrUnauthenticated is returned when credentials don't match a user.
	ErrUnauthenticated = identity.ErrUnauthenticated
	// ErrForbidden is returned when the caller doesn't own the target.
	ErrForbidden = errors.New("not authorized")
	// ErrNotFound is returned when the target is missing or deleted.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique value is already taken.
	ErrConflict = errors.New("already exists")
)

// ValidationError carries the field-level failures of a rejected input.
type ValidationError struct {
	Fields validation.Errors
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Fields.Error()
}

// TransientError wraps a storage failure that may succeed on retry.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// invalid returns a *ValidationError for errs, or nil when there are none.
func invalid(errs validation.Errors) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: errs}
}

// invalidField reports a single field failure.
func invalidField(field string, kind validation.Kind, message string) error {
	return &ValidationError{Fields: validation.Errors{{Field: field, Kind: kind, Message: message}}}
}

// storeError maps a store failure onto the taxonomy.
func storeError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrDuplicate):
		return ErrConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return &TransientError{Op: op, Err: err}
	}
}
