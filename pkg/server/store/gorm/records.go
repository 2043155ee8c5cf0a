package gorm

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/feedbox/pkg/model"
	"github.com/doodlesbykumbi/feedbox/pkg/server/store"
)

// Ensure RecordsStore implements store.RecordsStore
var _ store.RecordsStore = (*RecordsStore)(nil)

// RecordsStore implements store.RecordsStore using GORM
type RecordsStore struct {
	db *gorm.DB
}

// NewRecordsStore creates a new RecordsStore
func NewRecordsStore(db *gorm.DB) *RecordsStore {
	return &RecordsStore{db: db}
}

func (s *RecordsStore) CreateRecord(ctx context.Context, record *model.Record) error {
	return translateError(s.db.WithContext(ctx).Create(record).Error)
}

func (s *RecordsStore) ListRecords(ctx context.Context, formID uuid.UUID, page store.Page) ([]model.Record, error) {
	records := []model.Record{}
	tx := s.db.WithContext(ctx).Where("form_id = ?", formID).Order("created_date desc, id")
	if err := paginate(tx, page).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

type summaryRow struct {
	Total         int64
	Rated         int64
	AverageRating *float64
}

func (s *RecordsStore) SummarizeRecords(ctx context.Context, formIDs ...uuid.UUID) (store.RecordSummary, error) {
	if len(formIDs) == 0 {
		return store.RecordSummary{}, nil
	}

	var row summaryRow
	err := s.db.WithContext(ctx).Model(&model.Record{}).
		Select("COUNT(*) AS total, COUNT(rating) AS rated, AVG(rating) AS average_rating").
		Where("form_id IN ?", formIDs).
		Scan(&row).Error
	if err != nil {
		return store.RecordSummary{}, err
	}

	return store.RecordSummary{
		Total:         row.Total,
		Rated:         row.Rated,
		AverageRating: row.AverageRating,
	}, nil
}
