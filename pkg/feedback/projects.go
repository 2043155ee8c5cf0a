package feedback

import (
	"context"

	"github.com/google/uuid"

	"github.com/doodlesbykumbi/feedbox/pkg/model"
	"github.com/doodlesbykumbi/feedbox/pkg/validation"
)

// CreateProject creates a project owned by the caller.
func (s *Service) CreateProject(ctx context.Context, callerID uuid.UUID, in validation.Project) (*model.Project, error) {
	if callerID == uuid.Nil {
		return nil, ErrForbidden
	}
	if err := invalid(validation.Struct(&in)); err != nil {
		return nil, err
	}

	project := &model.Project{
		Name:   in.Name,
		Desc:   in.Desc,
		UserID: callerID,
	}
	if err := s.projects.CreateProject(ctx, project); err != nil {
		return nil, storeError("create project", err)
	}
	return project, nil
}

// EditProject replaces the name and description of a project. A nil
// description clears it.
func (s *Service) EditProject(ctx context.Context, projectID, callerID uuid.UUID, in validation.Project) (*model.Project, error) {
	if err := invalid(validation.Struct(&in)); err != nil {
		return nil, err
	}
	project, err := s.ownedProject(ctx, projectID, callerID)
	if err != nil {
		return nil, err
	}

	if err := s.projects.UpdateProject(ctx, project.ID, in.Name, in.Desc); err != nil {
		return nil, storeError("update project", err)
	}
	project.Name = in.Name
	project.Desc = in.Desc
	return project, nil
}

// ListProjects returns a page of the caller's live projects, newest first,
// and the number of live projects in total.
func (s *Service) ListProjects(ctx context.Context, callerID uuid.UUID, p validation.Page) ([]model.Project, int64, error) {
	if callerID == uuid.Nil {
		return nil, 0, ErrForbidden
	}
	page, err := s.page(p)
	if err != nil {
		return nil, 0, err
	}

	projects, err := s.projects.ListProjects(ctx, callerID, page)
	if err != nil {
		return nil, 0, storeError("list projects", err)
	}
	total, err := s.projects.CountProjects(ctx, callerID)
	if err != nil {
		return nil, 0, storeError("count projects", err)
	}
	return projects, total, nil
}

// GetProject returns one of the caller's live projects.
func (s *Service) GetProject(ctx context.Context, projectID, callerID uuid.UUID) (*model.Project, error) {
	return s.ownedProject(ctx, projectID, callerID)
}

// SoftDeleteProject flags a project as deleted. Its forms and records are
// left untouched but become unreachable.
func (s *Service) SoftDeleteProject(ctx context.Context, projectID, callerID uuid.UUID) error {
	project, err := s.ownedProject(ctx, projectID, callerID)
	if err != nil {
		return err
	}
	return storeError("delete project", s.projects.SoftDeleteProject(ctx, project.ID))
}

// FetchProjectRecord returns a project whether or not it is deleted. It
// performs no ownership check and is meant for administration.
func (s *Service) FetchProjectRecord(ctx context.Context, projectID uuid.UUID) (*model.Project, error) {
	project, err := s.projects.FetchProject(ctx, projectID)
	if err != nil {
		return nil, storeError("fetch project", err)
	}
	return project, nil
}

// ownedProject loads a live project and checks that the caller owns it.
func (s *Service) ownedProject(ctx context.Context, projectID, callerID uuid.UUID) (*model.Project, error) {
	if callerID == uuid.Nil {
		return nil, ErrForbidden
	}
	project, err := s.projects.FetchProject(ctx, projectID)
	if err != nil {
		return nil, storeError("fetch project", err)
	}
	if project.IsDeleted {
		return nil, ErrNotFound
	}
	if !project.OwnedBy(callerID) {
		return nil, ErrForbidden
	}
	return project, nil
}
