// Package gorm implements the store interfaces with GORM, on PostgreSQL in
// production and SQLite in development and tests.
//
// Listings order by created_date descending with id as tie breaker, and skip
// soft-deleted rows. Driver errors are translated to store.ErrNotFound and
// store.ErrDuplicate; anything else is returned as is.
package gorm
