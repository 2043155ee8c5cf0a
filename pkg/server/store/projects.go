package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/doodlesbykumbi/feedbox/pkg/model"
)

// ProjectsStore abstracts project storage
type ProjectsStore interface {
	CreateProject(ctx context.Context, project *model.Project) error

	// FetchProject returns a project by id whether or not it is deleted,
	// or ErrNotFound.
	FetchProject(ctx context.Context, id uuid.UUID) (*model.Project, error)

	// ListProjects returns the live projects of an owner, newest first.
	ListProjects(ctx context.Context, ownerID uuid.UUID, page Page) ([]model.Project, error)

	// CountProjects counts the live projects of an owner.
	CountProjects(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// UpdateProject changes the name and description of a project.
	UpdateProject(ctx context.Context, id uuid.UUID, name string, desc *string) error

	// SoftDeleteProject flags a project as deleted.
	SoftDeleteProject(ctx context.Context, id uuid.UUID) error
}
