package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    name          TEXT PRIMARY KEY,
    stock         INTEGER NOT NULL DEFAULT 0,
    current_stock INTEGER,
    exp_date      TEXT,
    bundle        TEXT,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS equipment (
    id                    INTEGER PRIMARY KEY,
    name                  TEXT NOT NULL UNIQUE,
    asset_code            TEXT,
    serial_number         TEXT,
    last_maintenance_date TEXT,
    maintenance_note      TEXT,
    image                 BLOB,
    image_mime            TEXT,
    created_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS daily_checks (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    equipment_id INTEGER NOT NULL REFERENCES equipment(id) ON DELETE CASCADE,
    check_date   TEXT NOT NULL,
    check_time   TEXT NOT NULL,
    status       TEXT NOT NULL CHECK (status IN ('READY', 'NOT_READY', 'BORROWED', 'AWAITING_REPAIR')),
    borrowed_to  TEXT,
    remark       TEXT,
    checked_by   TEXT
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
