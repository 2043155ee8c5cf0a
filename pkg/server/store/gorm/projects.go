package gorm

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/feedbox/pkg/model"
	"github.com/doodlesbykumbi/feedbox/pkg/server/store"
)

// Ensure ProjectsStore implements store.ProjectsStore
var _ store.ProjectsStore = (*ProjectsStore)(nil)

// ProjectsStore implements store.ProjectsStore using GORM
type ProjectsStore struct {
	db *gorm.DB
}

// NewProjectsStore creates a new ProjectsStore
func NewProjectsStore(db *gorm.DB) *ProjectsStore {
	return &ProjectsStore{db: db}
}

func (s *ProjectsStore) CreateProject(ctx context.Context, project *model.Project) error {
	return translateError(s.db.WithContext(ctx).Create(project).Error)
}

func (s *ProjectsStore) FetchProject(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&project).Error; err != nil {
		return nil, translateError(err)
	}
	return &project, nil
}

func (s *ProjectsStore) live(ctx context.Context, ownerID uuid.UUID) *gorm.DB {
	return s.db.WithContext(ctx).Model(&model.Project{}).
		Where("user_id = ? AND is_deleted = ?", ownerID, false)
}

func (s *ProjectsStore) ListProjects(ctx context.Context, ownerID uuid.UUID, page store.Page) ([]model.Project, error) {
	projects := []model.Project{}
	tx := paginate(s.live(ctx, ownerID).Order("created_date desc, id"), page).Find(&projects)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return projects, nil
}

func (s *ProjectsStore) CountProjects(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := s.live(ctx, ownerID).Count(&count).Error
	return count, err
}

func (s *ProjectsStore) UpdateProject(ctx context.Context, id uuid.UUID, name string, desc *string) error {
	tx := s.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", id).
		Updates(map[string]any{"name": name, "description": desc})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *ProjectsStore) SoftDeleteProject(ctx context.Context, id uuid.UUID) error {
	tx := s.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", id).Update("is_deleted", true)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
