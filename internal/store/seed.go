package store

import (
	"context"
	"database/sql"
	"fmt"
)

type demoItem struct {
	name    string
	stock   int
	current int
	expiry  string
	bundle  string
}

var demoItems = []demoItem{
	{"Adrenaline 1mg/ml 1ml", 10, 10, "2026-12-31", "CPR"},
	{"Ambu bag", 1, 1, "02/12/2025", "airway"},
	{"ETT 7.0", 2, 2, "2027-03-15", "airway"},
	{"Endotracheal tube No. 7.5", 2, 2, "18/06/2027", "airway"},
	{"laryngo blade No. 3", 1, 1, "06/04/2026", "airway"},
	{"NSS 1000ml", 20, 18, "2026-09-30", "IV"},
	{"5% DW 500 ml", 2, 2, "13/01/2028", "IV"},
	{"IV cath No. 18 green", 5, 5, "30/09/2027", ""},
	{"Defib Gel", 1, 1, "08/08/2027", "CPR"},
}

var demoEquipment = []struct {
	name, asset, serial string
}{
	{"Defibrillator", "OR-DEF-01", "DF0001"},
	{"Suction unit", "OR-SUC-01", "SU0001"},
	{"Video laryngoscope", "OR-VL-01", "VL0001"},
}

// SeedDemo fills an empty database with demonstration items and equipment.
// It does nothing if any item already exists and reports whether it seeded.
func SeedDemo(ctx context.Context, db *sql.DB) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&count); err != nil {
		return false, fmt.Errorf("counting items: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	for _, it := range demoItems {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO items (name, stock, current_stock, exp_date, bundle) VALUES (?, ?, ?, ?, ?)`,
			it.name, it.stock, it.current, it.expiry, nullIfEmpty(it.bundle),
		)
		if err != nil {
			return false, fmt.Errorf("seeding item %q: %w", it.name, err)
		}
	}

	for _, eq := range demoEquipment {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO equipment (name, asset_code, serial_number) VALUES (?, ?, ?)`,
			eq.name, eq.asset, eq.serial,
		)
		if err != nil {
			return false, fmt.Errorf("seeding equipment %q: %w", eq.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing seed: %w", err)
	}
	return true, nil
}
