package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMigrateIsIdempotent(t *testing.T) {
	database := NewTestDB(t)

	if err := Migrate(database); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	var count int
	err := database.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table'
		 AND name IN ('items', 'equipment', 'daily_checks', 'settings', 'revoked_tokens')`,
	).Scan(&count)
	if err != nil {
		t.Fatalf("counting tables: %v", err)
	}
	if count != 5 {
		t.Errorf("expected 5 tables, got %d", count)
	}
}

func TestCheckStatusConstraint(t *testing.T) {
	database := NewTestDB(t)

	if _, err := database.Exec(`INSERT INTO equipment (id, name) VALUES (1, 'Enerjet')`); err != nil {
		t.Fatalf("inserting equipment: %v", err)
	}
	_, err := database.Exec(
		`INSERT INTO daily_checks (equipment_id, check_date, check_time, status) VALUES (1, '2026-10-17', '08:00:00', 'BROKEN')`,
	)
	if err == nil {
		t.Error("expected unknown check status to be rejected")
	}
}

func TestBackup(t *testing.T) {
	dir := t.TempDir()
	database, err := Open(filepath.Join(dir, "live.sqlite3"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()
	if err := Migrate(database); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if _, err := database.Exec(`INSERT INTO items (name, stock, current_stock) VALUES ('gauze', 5, 5)`); err != nil {
		t.Fatalf("inserting item: %v", err)
	}

	now := time.Date(2026, time.October, 17, 3, 0, 0, 0, time.UTC)
	path, err := Backup(context.Background(), database, filepath.Join(dir, "backup"), "auto", now)
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if filepath.Base(path) != "vozicek_auto_20261017_030000.sqlite3" {
		t.Errorf("unexpected backup name %s", filepath.Base(path))
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("backup file missing: %v", err)
	}

	copyDB, err := Open(path)
	if err != nil {
		t.Fatalf("opening backup: %v", err)
	}
	defer copyDB.Close()
	var n int
	if err := copyDB.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		t.Fatalf("reading backup: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 item in backup, got %d", n)
	}

	if _, err := Backup(context.Background(), database, filepath.Join(dir, "backup"), "auto", now); err == nil {
		t.Error("expected error when the backup file already exists")
	}
}
