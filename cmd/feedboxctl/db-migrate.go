package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/feedbox/pkg/db"
	"github.com/doodlesbykumbi/feedbox/pkg/log"
)

const migrationsTable = "feedbox_schema_migrations"

// dbMigrateCmd represents the db migrate command
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and/or upgrade the database schema",
	Long: `Create and/or upgrade the database schema.

This command runs all pending database migrations to bring the schema
up to date. Migrations are located in the db/migrations directory.

Example:
  feedboxctl db migrate`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runMigrations(); err != nil {
			log.WithError(err).Error("Migration failed")
			os.Exit(1)
		}
	},
}

var dbMigrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Rollback database migrations",
	Long: `Rollback database migrations.

This command rolls back the specified number of migrations (default: 1).

Example:
  feedboxctl db down      # Rollback 1 migration
  feedboxctl db down 3    # Rollback 3 migrations`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		steps := 1
		if len(args) > 0 {
			if _, err := fmt.Sscanf(args[0], "%d", &steps); err != nil || steps < 1 {
				fmt.Println("steps must be a positive number")
				os.Exit(1)
			}
		}

		if err := runMigrationsDown(steps); err != nil {
			log.WithError(err).Error("Rollback failed")
			os.Exit(1)
		}
	},
}

var dbMigrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current migration version",
	Long:  `Show the current database migration version.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := showMigrationStatus(); err != nil {
			fmt.Println("Failed to get status:", err)
			os.Exit(1)
		}
	},
}

func init() {
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbMigrateDownCmd)
	dbCmd.AddCommand(dbMigrateStatusCmd)
}

// migrationURL returns the database URL with the migrations table parameter
// understood by the golang-migrate postgres driver.
func migrationURL() (string, error) {
	dbURL := db.URL()
	if dbURL == "" {
		return "", fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if db.IsSQLite(dbURL) {
		return "", fmt.Errorf("SQL migrations target PostgreSQL; sqlite databases are created from the models")
	}
	if strings.Contains(dbURL, "?") {
		return dbURL + "&x-migrations-table=" + migrationsTable, nil
	}
	return dbURL + "?x-migrations-table=" + migrationsTable, nil
}

// withMigrator runs fn against a migrator for DATABASE_URL and closes it.
func withMigrator(fn func(m *migrate.Migrate) error) error {
	dbURL, err := migrationURL()
	if err != nil {
		return err
	}
	m, err := createMigrateInstance(dbURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()
	return fn(m)
}

// currentVersion reports the applied version, zero when nothing is applied.
func currentVersion(m *migrate.Migrate) (uint, bool, error) {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func runMigrations() error {
	return withMigrator(func(m *migrate.Migrate) error {
		from, dirty, err := currentVersion(m)
		if err != nil {
			return err
		}
		if dirty {
			return fmt.Errorf("database is dirty at version %d, fix it by hand before migrating", from)
		}

		err = m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			log.Infof("Database schema is up to date (version %d)", from)
			return nil
		}
		if err != nil {
			return err
		}

		to, _, _ := currentVersion(m)
		log.Infof("Migrated database schema from version %d to %d", from, to)
		return nil
	})
}

func runMigrationsDown(steps int) error {
	return withMigrator(func(m *migrate.Migrate) error {
		log.Infof("Rolling back %d migration(s)...", steps)
		if err := m.Steps(-steps); err != nil {
			return err
		}

		version, _, err := currentVersion(m)
		if err != nil {
			return err
		}
		log.Infof("Database schema is at version %d", version)
		return nil
	})
}

func showMigrationStatus() error {
	available, err := listMigrationFiles()
	if err != nil {
		return err
	}

	return withMigrator(func(m *migrate.Migrate) error {
		version, dirty, err := currentVersion(m)
		if err != nil {
			return err
		}
		if version == 0 {
			fmt.Printf("No migrations have been applied yet (%d available)\n", len(available))
			return nil
		}

		fmt.Printf("Current version: %d (%d migrations available)\n", version, len(available))
		if dirty {
			fmt.Println("Warning: Database is in a dirty state")
		}
		return nil
	})
}
