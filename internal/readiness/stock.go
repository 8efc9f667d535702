package readiness

import (
	"errors"
	"fmt"
)

var (
	// ErrDepletedStock is returned when consuming from an item with nothing on hand.
	ErrDepletedStock = errors.New("stock already depleted")

	// ErrInvalidQuantity is returned for a non-positive quantity or one larger
	// than the current stock.
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// CheckConsume validates taking qty units from an item holding current units.
// A depleted item is reported before the quantity is looked at.
func CheckConsume(current, qty int) error {
	if current <= 0 {
		return ErrDepletedStock
	}
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidQuantity, qty)
	}
	if qty > current {
		return fmt.Errorf("%w: requested %d, only %d on hand", ErrInvalidQuantity, qty, current)
	}
	return nil
}
