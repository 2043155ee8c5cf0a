package gorm

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/feedbox/pkg/server/store"
)

// translateError maps driver errors onto the store sentinels.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case isDuplicate(err):
		return store.ErrDuplicate
	default:
		return err
	}
}

// isDuplicate recognizes unique violations from the postgres and sqlite
// drivers, with or without gorm's TranslateError.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "SQLSTATE 23505")
}

func paginate(tx *gorm.DB, page store.Page) *gorm.DB {
	if page.Limit > 0 {
		tx = tx.Limit(page.Limit)
	}
	if page.Offset > 0 {
		tx = tx.Offset(page.Offset)
	}
	return tx
}
