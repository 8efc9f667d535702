package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	vdb "github.com/erazemk/vozicek/internal/db"
	"github.com/erazemk/vozicek/internal/readiness"
)

// BackupOncePerDay writes an "auto" backup unless one was already written on
// now's date. It returns the backup path, or "" when it skipped.
func BackupOncePerDay(ctx context.Context, db *sql.DB, dir string, now time.Time) (string, error) {
	today := readiness.FormatDate(now)

	last, _, err := GetSetting(ctx, db, SettingLastBackupDate)
	if err != nil {
		return "", err
	}
	if last == today {
		return "", nil
	}

	path, err := vdb.Backup(ctx, db, dir, "auto", now)
	if err != nil {
		return "", fmt.Errorf("daily backup: %w", err)
	}

	if err := SetSetting(ctx, db, SettingLastBackupDate, today); err != nil {
		return path, err
	}
	return path, nil
}
