package feedback

import (
	"context"

	"github.com/google/uuid"

	"github.com/doodlesbykumbi/feedbox/pkg/model"
	"github.com/doodlesbykumbi/feedbox/pkg/validation"
)

// CreateForm creates a form in one of the caller's projects.
func (s *Service) CreateForm(ctx context.Context, callerID uuid.UUID, in validation.Form) (*model.Form, error) {
	if err := invalid(validation.Struct(&in)); err != nil {
		return nil, err
	}
	projectID, err := ParseID("projectId", in.ProjectID)
	if err != nil {
		return nil, err
	}
	project, err := s.ownedProject(ctx, projectID, callerID)
	if err != nil {
		return nil, err
	}

	form := &model.Form{
		Name:      in.Name,
		Heading:   in.Heading,
		Type:      in.Type,
		ProjectID: project.ID,
	}
	if err := s.forms.CreateForm(ctx, form); err != nil {
		return nil, storeError("create form", err)
	}
	return form, nil
}

// ListForms returns a page of the live forms of one of the caller's
// projects, and their total.
func (s *Service) ListForms(ctx context.Context, projectID, callerID uuid.UUID, p validation.Page) ([]model.Form, int64, error) {
	page, err := s.page(p)
	if err != nil {
		return nil, 0, err
	}
	project, err := s.ownedProject(ctx, projectID, callerID)
	if err != nil {
		return nil, 0, err
	}

	forms, err := s.forms.ListForms(ctx, project.ID, page)
	if err != nil {
		return nil, 0, storeError("list forms", err)
	}
	total, err := s.forms.CountForms(ctx, project.ID)
	if err != nil {
		return nil, 0, storeError("count forms", err)
	}
	return forms, total, nil
}

// GetForm returns a live form of one of the caller's projects.
func (s *Service) GetForm(ctx context.Context, formID, callerID uuid.UUID) (*model.Form, error) {
	form, _, err := s.ownedForm(ctx, formID, callerID)
	return form, err
}

// SoftDeleteForm flags a form as deleted. Its records are kept.
func (s *Service) SoftDeleteForm(ctx context.Context, formID, callerID uuid.UUID) error {
	form, _, err := s.ownedForm(ctx, formID, callerID)
	if err != nil {
		return err
	}
	return storeError("delete form", s.forms.SoftDeleteForm(ctx, form.ID))
}

// PublicForm returns a live form for anonymous submitters.
func (s *Service) PublicForm(ctx context.Context, formID uuid.UUID) (*model.Form, error) {
	form, _, err := s.liveForm(ctx, formID)
	return form, err
}

// liveForm loads a form whose project and itself are both live.
func (s *Service) liveForm(ctx context.Context, formID uuid.UUID) (*model.Form, *model.Project, error) {
	form, err := s.forms.FetchForm(ctx, formID)
	if err != nil {
		return nil, nil, storeError("fetch form", err)
	}
	if form.IsDeleted {
		return nil, nil, ErrNotFound
	}
	project, err := s.projects.FetchProject(ctx, form.ProjectID)
	if err != nil {
		return nil, nil, storeError("fetch project", err)
	}
	if project.IsDeleted {
		return nil, nil, ErrNotFound
	}
	return form, project, nil
}

// ownedForm loads a live form and checks that the caller owns its project.
func (s *Service) ownedForm(ctx context.Context, formID, callerID uuid.UUID) (*model.Form, *model.Project, error) {
	if callerID == uuid.Nil {
		return nil, nil, ErrForbidden
	}
	form, project, err := s.liveForm(ctx, formID)
	if err != nil {
		return nil, nil, err
	}
	if !project.OwnedBy(callerID) {
		return nil, nil, ErrForbidden
	}
	return form, project, nil
}
