package model

import "time"

// InventoryItem is one emergency-cart supply line. Name is the primary key.
type InventoryItem struct {
	Name         string     `json:"name"`
	Stock        int        `json:"stock"`
	CurrentStock int        `json:"current_stock"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	Bundle       string     `json:"bundle,omitempty"`
}

// HasBundle reports whether the item takes part in a bundle readiness check.
func (i InventoryItem) HasBundle() bool {
	return i.Bundle != ""
}
