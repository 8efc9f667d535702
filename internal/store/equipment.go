package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/vozicek/internal/model"
	"github.com/erazemk/vozicek/internal/readiness"
)

const equipmentColumns = `id, name, asset_code, serial_number, last_maintenance_date, maintenance_note, image_mime, created_at`

// CreateEquipment registers a new equipment unit.
func CreateEquipment(ctx context.Context, db *sql.DB, unit model.EquipmentUnit) (*model.EquipmentUnit, error) {
	name := strings.TrimSpace(unit.Name)
	if name == "" {
		return nil, fmt.Errorf("equipment name required")
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO equipment (name, asset_code, serial_number, last_maintenance_date, maintenance_note)
		 VALUES (?, ?, ?, ?, ?)`,
		name, nullIfEmpty(unit.AssetCode), nullIfEmpty(unit.SerialNumber),
		dateValue(unit.LastMaintenanceDate), nullIfEmpty(unit.MaintenanceNote),
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("creating equipment %q: %w", name, ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("creating equipment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting equipment id: %w", err)
	}

	return GetEquipment(ctx, db, id)
}

// GetEquipment returns a unit by ID, or nil if it does not exist.
func GetEquipment(ctx context.Context, db *sql.DB, id int64) (*model.EquipmentUnit, error) {
	var w readiness.Warnings
	unit, err := scanEquipment(db.QueryRowContext(ctx,
		`SELECT `+equipmentColumns+` FROM equipment WHERE id = ?`, id,
	), &w)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting equipment: %w", err)
	}
	return unit, nil
}

// ListEquipment returns all units ordered by name.
func ListEquipment(ctx context.Context, db *sql.DB) ([]model.EquipmentUnit, error) {
	var w readiness.Warnings
	return listEquipment(ctx, db, &w)
}

func listEquipment(ctx context.Context, q querier, w *readiness.Warnings) ([]model.EquipmentUnit, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+equipmentColumns+` FROM equipment ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing equipment: %w", err)
	}
	defer rows.Close()

	var units []model.EquipmentUnit
	for rows.Next() {
		unit, err := scanEquipment(rows, w)
		if err != nil {
			return nil, fmt.Errorf("scanning equipment: %w", err)
		}
		units = append(units, *unit)
	}
	return units, rows.Err()
}

func scanEquipment(row scanner, w *readiness.Warnings) (*model.EquipmentUnit, error) {
	var u model.EquipmentUnit
	var asset, serial, maintDate, note, mime sql.NullString
	if err := row.Scan(&u.ID, &u.Name, &asset, &serial, &maintDate, &note, &mime, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.AssetCode = asset.String
	u.SerialNumber = serial.String
	u.MaintenanceNote = note.String
	u.ImageMime = mime.String
	u.LastMaintenanceDate = parseDateColumn(maintDate, w)
	return &u, nil
}

func parseDateColumn(v sql.NullString, w *readiness.Warnings) *time.Time {
	if !v.Valid || strings.TrimSpace(v.String) == "" {
		return nil
	}
	t, ok := readiness.ParseDate(v.String)
	if !ok {
		w.MalformedDate(v.String)
		return nil
	}
	return &t
}

// UpdateEquipment replaces a unit's descriptive fields.
func UpdateEquipment(ctx context.Context, db *sql.DB, unit model.EquipmentUnit) error {
	name := strings.TrimSpace(unit.Name)
	if name == "" {
		return fmt.Errorf("equipment name required")
	}

	result, err := db.ExecContext(ctx,
		`UPDATE equipment SET name = ?, asset_code = ?, serial_number = ? WHERE id = ?`,
		name, nullIfEmpty(unit.AssetCode), nullIfEmpty(unit.SerialNumber), unit.ID,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("renaming equipment to %q: %w", name, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("updating equipment: %w", err)
	}
	return requireRow(result, "equipment", unit.ID)
}

// SetMaintenance records the latest maintenance date and note for a unit.
func SetMaintenance(ctx context.Context, db *sql.DB, id int64, date *time.Time, note string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE equipment SET last_maintenance_date = ?, maintenance_note = ? WHERE id = ?`,
		dateValue(date), nullIfEmpty(note), id,
	)
	if err != nil {
		return fmt.Errorf("setting maintenance: %w", err)
	}
	return requireRow(result, "equipment", id)
}

// SetEquipmentImage stores a processed photo for a unit.
func SetEquipmentImage(ctx context.Context, db *sql.DB, id int64, data []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE equipment SET image = ?, image_mime = ? WHERE id = ?`, data, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting equipment image: %w", err)
	}
	return requireRow(result, "equipment", id)
}

// GetEquipmentImage returns a unit's photo and its MIME type. Data is nil if
// the unit has no photo.
func GetEquipmentImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var data []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM equipment WHERE id = ?`, id,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", fmt.Errorf("equipment %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting equipment image: %w", err)
	}
	return data, mime.String, nil
}

// DeleteEquipment removes a unit together with its check log.
func DeleteEquipment(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_checks WHERE equipment_id = ?`, id); err != nil {
		return fmt.Errorf("deleting checks: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM equipment WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting equipment: %w", err)
	}
	if err := requireRow(result, "equipment", id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing equipment delete: %w", err)
	}
	return nil
}
