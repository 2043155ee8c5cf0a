package feedback

import (
	"context"

	"github.com/google/uuid"

	"github.com/doodlesbykumbi/feedbox/pkg/model"
	"github.com/doodlesbykumbi/feedbox/pkg/server/store"
	"github.com/doodlesbykumbi/feedbox/pkg/validation"
)

// ProjectSummary aggregates the records of every live form of a project.
type ProjectSummary struct {
	Forms int `json:"forms"`
	store.RecordSummary
}

// SubmitRecord stores an anonymous submission to a live form.
func (s *Service) SubmitRecord(ctx context.Context, in validation.Record) (*model.Record, error) {
	cfg := s.config()
	if err := invalid(validation.ValidateRecord(&in, cfg.RatingMin, cfg.RatingMax)); err != nil {
		return nil, err
	}
	formID, err := ParseID("formId", in.FormID)
	if err != nil {
		return nil, err
	}
	form, _, err := s.liveForm(ctx, formID)
	if err != nil {
		return nil, err
	}

	record := &model.Record{
		FormID: form.ID,
		Text:   in.Text,
		Rating: in.Rating,
	}
	if err := s.records.CreateRecord(ctx, record); err != nil {
		return nil, storeError("create record", err)
	}
	return record, nil
}

// ListRecords returns a page of the records of one of the caller's forms,
// newest first.
func (s *Service) ListRecords(ctx context.Context, formID, callerID uuid.UUID, p validation.Page) ([]model.Record, error) {
	page, err := s.page(p)
	if err != nil {
		return nil, err
	}
	form, _, err := s.ownedForm(ctx, formID, callerID)
	if err != nil {
		return nil, err
	}

	records, err := s.records.ListRecords(ctx, form.ID, page)
	if err != nil {
		return nil, storeError("list records", err)
	}
	return records, nil
}

// SummarizeForm counts the records of a form and averages their ratings.
func (s *Service) SummarizeForm(ctx context.Context, formID, callerID uuid.UUID) (store.RecordSummary, error) {
	form, _, err := s.ownedForm(ctx, formID, callerID)
	if err != nil {
		return store.RecordSummary{}, err
	}
	summary, err := s.records.SummarizeRecords(ctx, form.ID)
	if err != nil {
		return store.RecordSummary{}, storeError("summarize records", err)
	}
	return summary, nil
}

// SummarizeProject aggregates the records of every live form of a project.
func (s *Service) SummarizeProject(ctx context.Context, projectID, callerID uuid.UUID) (ProjectSummary, error) {
	project, err := s.ownedProject(ctx, projectID, callerID)
	if err != nil {
		return ProjectSummary{}, err
	}

	forms, err := s.forms.ListForms(ctx, project.ID, store.Page{})
	if err != nil {
		return ProjectSummary{}, storeError("list forms", err)
	}
	ids := make([]uuid.UUID, 0, len(forms))
	for _, f := range forms {
		ids = append(ids, f.ID)
	}

	summary, err := s.records.SummarizeRecords(ctx, ids...)
	if err != nil {
		return ProjectSummary{}, storeError("summarize records", err)
	}
	return ProjectSummary{Forms: len(forms), RecordSummary: summary}, nil
}
