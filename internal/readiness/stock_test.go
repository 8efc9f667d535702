package readiness

import (
	"errors"
	"testing"
)

func TestCheckConsume(t *testing.T) {
	tests := []struct {
		name    string
		current int
		qty     int
		wantErr error
	}{
		{"take one", 3, 1, nil},
		{"take all", 3, 3, nil},
		{"more than on hand", 3, 5, ErrInvalidQuantity},
		{"zero quantity", 3, 0, ErrInvalidQuantity},
		{"negative quantity", 3, -1, ErrInvalidQuantity},
		{"already empty", 0, 1, ErrDepletedStock},
		{"empty beats bad quantity", 0, -4, ErrDepletedStock},
		{"negative stock", -1, 1, ErrDepletedStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckConsume(tt.current, tt.qty)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("CheckConsume(%d, %d) = %v, want nil", tt.current, tt.qty, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckConsume(%d, %d) = %v, want %v", tt.current, tt.qty, err, tt.wantErr)
			}
		})
	}
}

func TestCheckConsumeErrorsAreDistinct(t *testing.T) {
	if errors.Is(CheckConsume(0, 1), ErrInvalidQuantity) {
		t.Error("depleted stock must not match ErrInvalidQuantity")
	}
	if errors.Is(CheckConsume(3, 5), ErrDepletedStock) {
		t.Error("over-consumption must not match ErrDepletedStock")
	}
}
