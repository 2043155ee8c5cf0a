// Package db holds the SQL migrations of the PostgreSQL schema.
package db

import "embed"

// Migrations contains the migration files under migrations/, applied by
// feedboxctl db migrate when built with the embed_migrations tag.
//
//go:embed migrations/*.sql
var Migrations embed.FS
