package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project groups forms. The owner and creation date never change; deletion
// only sets IsDeleted.
type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Desc        *string   `gorm:"column:description" json:"desc,omitempty"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	CreatedDate time.Time `gorm:"column:created_date;not null" json:"createdDate"`
	IsDeleted   bool      `gorm:"column:is_deleted;not null;default:false" json:"isDeleted"`
}

func (Project) TableName() string {
	return "projects"
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedDate.IsZero() {
		p.CreatedDate = time.Now().UTC()
	}
	return nil
}

// OwnedBy reports whether userID owns the project.
func (p *Project) OwnedBy(userID uuid.UUID) bool {
	return p.UserID == userID
}
