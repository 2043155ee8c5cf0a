package gorm

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/feedbox/pkg/model"
	"github.com/doodlesbykumbi/feedbox/pkg/server/store"
)

var _ store.HealthStore = (*HealthStore)(nil)

type HealthStore struct {
	db *gorm.DB
}

func NewHealthStore(db *gorm.DB) *HealthStore {
	return &HealthStore{db: db}
}

// CheckConnectivity pings the database and checks that the schema is in place.
func (s *HealthStore) CheckConnectivity(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return err
	}
	for _, table := range model.All() {
		if !s.db.WithContext(ctx).Migrator().HasTable(table) {
			return fmt.Errorf("table of %T is missing, run feedboxctl db migrate", table)
		}
	}
	return nil
}
