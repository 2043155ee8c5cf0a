package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FormType is the presentation style of a form.
type FormType string

const (
	FormTypeLong  FormType = "long"
	FormTypeShort FormType = "short"
)

// Valid reports whether t is a known form type.
func (t FormType) Valid() bool {
	return t == FormTypeLong || t == FormTypeShort
}

type Form struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Heading     string    `gorm:"not null" json:"heading"`
	Type        FormType  `gorm:"not null" json:"type"`
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;index" json:"projectId"`
	CreatedDate time.Time `gorm:"column:created_date;not null" json:"createdDate"`
	IsDeleted   bool      `gorm:"column:is_deleted;not null;default:false" json:"isDeleted"`
}

func (Form) TableName() string {
	return "forms"
}

func (f *Form) BeforeCreate(tx *gorm.DB) error {
	if !f.Type.Valid() {
		return fmt.Errorf("unknown form type %q", f.Type)
	}
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.CreatedDate.IsZero() {
		f.CreatedDate = time.Now().UTC()
	}
	return nil
}
