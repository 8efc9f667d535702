package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Backup writes a consistent copy of the database into dir, named after the
// reason and timestamp, and returns its path.
func Backup(ctx context.Context, db *sql.DB, dir, reason string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup dir: %w", err)
	}

	name := fmt.Sprintf("vozicek_%s_%s.sqlite3", reason, now.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("backup %s already exists", path)
	}

	if _, err := db.ExecContext(ctx, `VACUUM INTO ?`, path); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}
	return path, nil
}
