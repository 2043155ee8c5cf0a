// Package db opens the feedbox database.
//
// PostgreSQL is the production database; its schema is managed by the SQL
// migrations under db/migrations. SQLite (sqlite://<path>) is meant for local
// development and tests, and gets its schema from the models.
package db
