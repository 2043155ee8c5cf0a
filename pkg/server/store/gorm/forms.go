package gorm

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/feedbox/pkg/model"
	"github.com/doodlesbykumbi/feedbox/pkg/server/store"
)

// Ensure FormsStore implements store.FormsStore
var _ store.FormsStore = (*FormsStore)(nil)

// FormsStore implements store.FormsStore using GORM
type FormsStore struct {
	db *gorm.DB
}

// NewFormsStore creates a new FormsStore
func NewFormsStore(db *gorm.DB) *FormsStore {
	return &FormsStore{db: db}
}

func (s *FormsStore) CreateForm(ctx context.Context, form *model.Form) error {
	return translateError(s.db.WithContext(ctx).Create(form).Error)
}

func (s *FormsStore) FetchForm(ctx context.Context, id uuid.UUID) (*model.Form, error) {
	var form model.Form
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&form).Error; err != nil {
		return nil, translateError(err)
	}
	return &form, nil
}

func (s *FormsStore) live(ctx context.Context, projectID uuid.UUID) *gorm.DB {
	return s.db.WithContext(ctx).Model(&model.Form{}).
		Where("project_id = ? AND is_deleted = ?", projectID, false)
}

func (s *FormsStore) ListForms(ctx context.Context, projectID uuid.UUID, page store.Page) ([]model.Form, error) {
	forms := []model.Form{}
	tx := paginate(s.live(ctx, projectID).Order("created_date desc, id"), page).Find(&forms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return forms, nil
}

func (s *FormsStore) CountForms(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	err := s.live(ctx, projectID).Count(&count).Error
	return count, err
}

func (s *FormsStore) SoftDeleteForm(ctx context.Context, id uuid.UUID) error {
	tx := s.db.WithContext(ctx).Model(&model.Form{}).Where("id = ?", id).Update("is_deleted", true)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
