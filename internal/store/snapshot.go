package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/vozicek/internal/readiness"
)

// LoadSnapshot reads every item, unit and check inside one transaction
// so the three lists are consistent with each other.
func LoadSnapshot(ctx context.Context, db *sql.DB, maxAge time.Duration, now time.Time) (readiness.Snapshot, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return readiness.Snapshot{}, fmt.Errorf("beginning snapshot: %w", err)
	}
	defer tx.Rollback()

	snap := readiness.Snapshot{TakenAt: now, MaxAge: maxAge}

	if snap.Items, err = listItems(ctx, tx, &snap.Warnings); err != nil {
		return readiness.Snapshot{}, err
	}
	if snap.Equipment, err = listEquipment(ctx, tx, &snap.Warnings); err != nil {
		return readiness.Snapshot{}, err
	}
	if snap.Checks, err = listAllChecks(ctx, tx, &snap.Warnings); err != nil {
		return readiness.Snapshot{}, err
	}

	return snap, nil
}
