package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/erazemk/vozicek/internal/model"
	"github.com/erazemk/vozicek/internal/readiness"
)

const itemColumns = `name, stock, current_stock, exp_date, bundle`

// CreateItem inserts a new cart item.
func CreateItem(ctx context.Context, db *sql.DB, item model.InventoryItem) (*model.InventoryItem, error) {
	name := strings.TrimSpace(item.Name)
	if name == "" {
		return nil, fmt.Errorf("item name required")
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO items (name, stock, current_stock, exp_date, bundle) VALUES (?, ?, ?, ?, ?)`,
		name, item.Stock, item.CurrentStock, dateValue(item.ExpiryDate), nullIfEmpty(item.Bundle),
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("creating item %q: %w", name, ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	return GetItem(ctx, db, name)
}

// GetItem returns an item by name, or nil if it does not exist.
func GetItem(ctx context.Context, db *sql.DB, name string) (*model.InventoryItem, error) {
	var w readiness.Warnings
	item, err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE name = ?`, name,
	), &w)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns all items ordered by name.
func ListItems(ctx context.Context, db *sql.DB) ([]model.InventoryItem, error) {
	var w readiness.Warnings
	return listItems(ctx, db, &w)
}

func listItems(ctx context.Context, q querier, w *readiness.Warnings) ([]model.InventoryItem, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+itemColumns+` FROM items ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows, w)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// scanItem reads one item row. Stock counts and dates are scanned as text so
// that bad imported values degrade to zero / no date instead of failing the
// whole read; every such value is recorded in w.
func scanItem(row scanner, w *readiness.Warnings) (*model.InventoryItem, error) {
	var name string
	var stock, current, expiry, bundle sql.NullString
	if err := row.Scan(&name, &stock, &current, &expiry, &bundle); err != nil {
		return nil, err
	}

	item := &model.InventoryItem{
		Name:         strings.TrimSpace(name),
		Stock:        parseCount(stock, w),
		CurrentStock: parseCount(current, w),
		Bundle:       strings.TrimSpace(bundle.String),
	}
	if expiry.Valid && strings.TrimSpace(expiry.String) != "" {
		if t, ok := readiness.ParseDate(expiry.String); ok {
			item.ExpiryDate = &t
		} else {
			w.MalformedDate(expiry.String)
		}
	}
	return item, nil
}

// parseCount converts a stored count to an int. NULL is zero. Reals
// within int32 range are truncated; anything else, including NaN,
// infinities and huge reals, is zero and recorded as malformed.
func parseCount(v sql.NullString, w *readiness.Warnings) int {
	s := strings.TrimSpace(v.String)
	if !v.Valid || s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr == nil && !math.IsNaN(f) && !math.IsInf(f, 0) &&
			f <= math.MaxInt32 && f >= math.MinInt32 {
			return int(f)
		}
		w.MalformedStockValue(v.String)
		return 0
	}
	return n
}

// UpdateItem replaces an item's par stock, current stock, expiry and bundle.
func UpdateItem(ctx context.Context, db *sql.DB, item model.InventoryItem) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET stock = ?, current_stock = ?, exp_date = ?, bundle = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE name = ?`,
		item.Stock, item.CurrentStock, dateValue(item.ExpiryDate), nullIfEmpty(item.Bundle), item.Name,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return requireRow(result, "item", item.Name)
}

// DeleteItem removes an item.
func DeleteItem(ctx context.Context, db *sql.DB, name string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return requireRow(result, "item", name)
}

// SetExpiry sets or clears an item's expiry date.
func SetExpiry(ctx context.Context, db *sql.DB, name string, expiry *time.Time) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET exp_date = ?, updated_at = CURRENT_TIMESTAMP WHERE name = ?`,
		dateValue(expiry), name,
	)
	if err != nil {
		return fmt.Errorf("setting expiry: %w", err)
	}
	return requireRow(result, "item", name)
}

// ConsumeStock takes qty units of an item and returns the remaining count.
// The request is validated against the current count inside the transaction,
// so stock never goes negative.
func ConsumeStock(ctx context.Context, db *sql.DB, name string, qty int) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var raw sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT current_stock FROM items WHERE name = ?`, name,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("consuming %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("checking current stock: %w", err)
	}

	var w readiness.Warnings
	current := parseCount(raw, &w)
	if err := readiness.CheckConsume(current, qty); err != nil {
		return current, fmt.Errorf("consuming %q: %w", name, err)
	}

	remaining := current - qty
	_, err = tx.ExecContext(ctx,
		`UPDATE items SET current_stock = ?, updated_at = CURRENT_TIMESTAMP WHERE name = ?`,
		remaining, name,
	)
	if err != nil {
		return 0, fmt.Errorf("consuming stock: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing stock consumption: %w", err)
	}
	return remaining, nil
}

// ResetStock sets an item's current stock back to par and returns it.
func ResetStock(ctx context.Context, db *sql.DB, name string) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var raw sql.NullString
	err = tx.QueryRowContext(ctx, `SELECT stock FROM items WHERE name = ?`, name).Scan(&raw)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("resetting %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("checking par stock: %w", err)
	}

	var w readiness.Warnings
	par := parseCount(raw, &w)
	_, err = tx.ExecContext(ctx,
		`UPDATE items SET current_stock = ?, updated_at = CURRENT_TIMESTAMP WHERE name = ?`,
		par, name,
	)
	if err != nil {
		return 0, fmt.Errorf("resetting stock: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing stock reset: %w", err)
	}
	return par, nil
}

func dateValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return readiness.FormatDate(*t)
}

func nullIfEmpty(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

func requireRow(result sql.Result, kind string, key any) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %v: %w", kind, key, ErrNotFound)
	}
	return nil
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}
