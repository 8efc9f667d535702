package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/erazemk/vozicek/internal/model"
	"github.com/erazemk/vozicek/internal/readiness"
)

// ErrInvalidStatus is returned when a check carries an unknown status.
var ErrInvalidStatus = errors.New("invalid check status")

const checkColumns = `id, equipment_id, check_date, check_time, status, borrowed_to, remark, checked_by`

// AppendCheck adds an entry to a unit's check log. Records are never edited
// afterwards. BorrowedTo is only kept for BORROWED checks.
func AppendCheck(ctx context.Context, db *sql.DB, rec model.CheckRecord) (*model.CheckRecord, error) {
	if !rec.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, rec.Status)
	}
	if rec.CheckDate == nil {
		return nil, fmt.Errorf("check date required")
	}
	borrowedTo := ""
	if rec.Status == model.CheckBorrowed {
		borrowedTo = rec.BorrowedTo
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM equipment WHERE id = ?`, rec.EquipmentID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking equipment: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("equipment %d: %w", rec.EquipmentID, ErrNotFound)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO daily_checks (equipment_id, check_date, check_time, status, borrowed_to, remark, checked_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.EquipmentID, readiness.FormatDate(*rec.CheckDate), strings.TrimSpace(rec.CheckTime),
		string(rec.Status), nullIfEmpty(borrowedTo), nullIfEmpty(rec.Remark), nullIfEmpty(rec.CheckedBy),
	)
	if err != nil {
		return nil, fmt.Errorf("appending check: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting check id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing check: %w", err)
	}

	rec.ID = id
	rec.BorrowedTo = borrowedTo
	return &rec, nil
}

// ListChecks returns a unit's check log, newest first.
func ListChecks(ctx context.Context, db *sql.DB, equipmentID int64) ([]model.CheckRecord, error) {
	var w readiness.Warnings
	rows, err := db.QueryContext(ctx,
		`SELECT `+checkColumns+` FROM daily_checks WHERE equipment_id = ? ORDER BY id DESC`, equipmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing checks: %w", err)
	}
	return collectChecks(rows, &w)
}

// ListAllChecks returns every check record in insertion order.
func ListAllChecks(ctx context.Context, db *sql.DB) ([]model.CheckRecord, error) {
	var w readiness.Warnings
	return listAllChecks(ctx, db, &w)
}

func listAllChecks(ctx context.Context, q querier, w *readiness.Warnings) ([]model.CheckRecord, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+checkColumns+` FROM daily_checks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing checks: %w", err)
	}
	return collectChecks(rows, w)
}

func collectChecks(rows *sql.Rows, w *readiness.Warnings) ([]model.CheckRecord, error) {
	defer rows.Close()

	var records []model.CheckRecord
	for rows.Next() {
		var r model.CheckRecord
		var date, tm, borrowed, remark, by sql.NullString
		var status string
		if err := rows.Scan(&r.ID, &r.EquipmentID, &date, &tm, &status, &borrowed, &remark, &by); err != nil {
			return nil, fmt.Errorf("scanning check: %w", err)
		}
		r.CheckDate = parseDateColumn(date, w)
		r.CheckTime = tm.String
		r.Status = model.CheckStatus(status)
		r.BorrowedTo = borrowed.String
		r.Remark = remark.String
		r.CheckedBy = by.String
		records = append(records, r)
	}
	return records, rows.Err()
}
