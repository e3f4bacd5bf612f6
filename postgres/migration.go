package postgres

import (
	"database/sql"

	"github.com/rubenv/sql-migrate"
)

// This file maintains the database migration code.  See
// https://github.com/rubenv/sql-migrate for details of what goes in
// here.  This runs "outside" the normal counter flow, either at
// initial startup or from an external tool.

var migrationSource = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "1-counter",
			Up: []string{
				`CREATE TABLE counter(
				     name TEXT PRIMARY KEY,
				     value BIGINT NOT NULL DEFAULT 0,
				     modified TIMESTAMP WITH TIME ZONE NOT NULL
				 )`,
			},
			Down: []string{
				`DROP TABLE counter`,
			},
		},
	},
}

// Upgrade upgrades a database to the latest database schema version.
func Upgrade(db *sql.DB) error {
	_, err := migrate.Exec(db, "postgres", migrationSource, migrate.Up)
	return err
}
