package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/doodlesbykumbi/feedbox/pkg/model"
)

// FormsStore abstracts form storage
type FormsStore interface {
	CreateForm(ctx context.Context, form *model.Form) error

	// FetchForm returns a form by id whether or not it is deleted,
	// or ErrNotFound.
	FetchForm(ctx context.Context, id uuid.UUID) (*model.Form, error)

	// ListForms returns the live forms of a project, newest first.
	ListForms(ctx context.Context, projectID uuid.UUID, page Page) ([]model.Form, error)

	// CountForms counts the live forms of a project.
	CountForms(ctx context.Context, projectID uuid.UUID) (int64, error)

	// SoftDeleteForm flags a form as deleted.
	SoftDeleteForm(ctx context.Context, id uuid.UUID) error
}
