package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: latest-check lookups scan checks per unit by id.
	`CREATE INDEX IF NOT EXISTS idx_daily_checks_equipment
	     ON daily_checks(equipment_id, id)`,
	// Migration 2: bundle readiness groups items by tag.
	`CREATE INDEX IF NOT EXISTS idx_items_bundle
	     ON items(bundle) WHERE bundle IS NOT NULL`,
}

// Migrate creates the schema and runs the migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
