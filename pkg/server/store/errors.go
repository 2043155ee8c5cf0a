package store

import "errors"

// ErrNotFound is returned when a row doesn't exist
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique constraint is violated
var ErrDuplicate = errors.New("already exists")

// Page selects a window of an ordered listing
type Page struct {
	Limit  int
	Offset int
}
