package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Record is one feedback submission. Records are written once and never
// updated or deleted.
type Record struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FormID      uuid.UUID `gorm:"type:uuid;not null;index" json:"formId"`
	Text        *string   `json:"text,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	CreatedDate time.Time `gorm:"column:created_date;not null" json:"createdDate"`
}

func (Record) TableName() string {
	return "records"
}

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedDate.IsZero() {
		r.CreatedDate = time.Now().UTC()
	}
	return nil
}

// All lists the models in dependency order, for schema creation on
// databases that aren't migrated with SQL files.
func All() []any {
	return []any{&User{}, &Project{}, &Form{}, &Record{}}
}
