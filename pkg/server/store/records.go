package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/doodlesbykumbi/feedbox/pkg/model"
)

// RecordSummary aggregates the records of one or more forms
type RecordSummary struct {
	Total int64 `json:"total"`
	// Rated counts the records that carry a rating
	Rated int64 `json:"rated"`
	// AverageRating is the mean of present ratings, nil when none is rated
	AverageRating *float64 `json:"averageRating"`
}

// RecordsStore abstracts feedback record storage. Records are append-only.
type RecordsStore interface {
	CreateRecord(ctx context.Context, record *model.Record) error

	// ListRecords returns the records of a form, newest first.
	ListRecords(ctx context.Context, formID uuid.UUID, page Page) ([]model.Record, error)

	// SummarizeRecords aggregates the records of the given forms.
	SummarizeRecords(ctx context.Context, formIDs ...uuid.UUID) (RecordSummary, error)
}
