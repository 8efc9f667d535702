package readiness

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/erazemk/vozicek/internal/model"
)

// Status is the single alert label assigned to an inventory item.
type Status string

// Item statuses, listed in evaluation priority.
const (
	StatusNoExpiryData Status = "NO_EXPIRY_DATA"
	StatusOutOfStock   Status = "OUT_OF_STOCK"
	StatusExpired      Status = "EXPIRED"
	StatusExpiringSoon Status = "EXPIRING_SOON"
	StatusLowStock     Status = "LOW_STOCK"
	StatusOK           Status = "OK"
)

// ExpiryWarningDays is the inclusive window for EXPIRING_SOON and for an
// upcoming tube exchange.
const ExpiryWarningDays = 30

// ExchangeLeadMonths is how long before printed expiry a tracheal tube must
// be exchanged.
const ExchangeLeadMonths = 24

var trachealTubePattern = regexp.MustCompile(`(?i)\bETT\b|endotracheal`)

// IsTrachealTube reports whether an item name denotes an endotracheal tube.
func IsTrachealTube(name string) bool {
	return trachealTubePattern.MatchString(name)
}

// ExchangeState describes where a tracheal tube is in its exchange cycle.
type ExchangeState string

// Exchange states.
const (
	ExchangeNone      ExchangeState = "NONE"
	ExchangeOverdue   ExchangeState = "OVERDUE"
	ExchangeDueSoon   ExchangeState = "DUE_SOON"
	ExchangeScheduled ExchangeState = "SCHEDULED"
)

// ClassifiedItem is an inventory item with every derived field filled in.
type ClassifiedItem struct {
	model.InventoryItem

	IsTrachealTube  bool                `json:"is_tracheal_tube"`
	DaysToExpire    *int                `json:"days_to_expire"`
	ExchangeDueDate *time.Time          `json:"exchange_due_date,omitempty"`
	DaysToExchange  *int                `json:"days_to_exchange,omitempty"`
	Exchange        ExchangeState       `json:"exchange"`
	Status          Status              `json:"status"`
	OverPar         bool                `json:"over_par,omitempty"`
	ParFill         decimal.NullDecimal `json:"par_fill"`
}

// InStock reports whether at least one unit is on hand.
func (c ClassifiedItem) InStock() bool {
	return c.CurrentStock > 0
}

// statusRule maps one condition to a status. Rules are evaluated in slice
// order and the first match wins.
type statusRule struct {
	status Status
	match  func(c *ClassifiedItem) bool
}

var statusRules = []statusRule{
	{StatusNoExpiryData, func(c *ClassifiedItem) bool { return c.DaysToExpire == nil }},
	{StatusOutOfStock, func(c *ClassifiedItem) bool { return c.CurrentStock <= 0 }},
	{StatusExpired, func(c *ClassifiedItem) bool { return *c.DaysToExpire <= 0 }},
	{StatusExpiringSoon, func(c *ClassifiedItem) bool { return *c.DaysToExpire <= ExpiryWarningDays }},
	{StatusLowStock, func(c *ClassifiedItem) bool { return c.CurrentStock == 1 }},
	{StatusOK, func(*ClassifiedItem) bool { return true }},
}

var hundred = decimal.NewFromInt(100)

// Classify derives expiry, exchange and stock information for one item
// relative to today. It never fails and never mutates item.
func Classify(item model.InventoryItem, today time.Time) ClassifiedItem {
	today = Day(today)
	c := ClassifiedItem{
		InventoryItem:  item,
		IsTrachealTube: IsTrachealTube(item.Name),
		Exchange:       ExchangeNone,
		OverPar:        item.CurrentStock > item.Stock,
	}

	if item.ExpiryDate != nil {
		expiry := Day(*item.ExpiryDate)
		c.ExpiryDate = &expiry
		days := DaysBetween(today, expiry)
		c.DaysToExpire = &days

		if c.IsTrachealTube {
			due := AddMonths(expiry, -ExchangeLeadMonths)
			left := DaysBetween(today, due)
			c.ExchangeDueDate = &due
			c.DaysToExchange = &left
			c.Exchange = exchangeState(left)
		}
	}

	if item.Stock > 0 {
		fill := decimal.NewFromInt(int64(item.CurrentStock)).
			Mul(hundred).
			Div(decimal.NewFromInt(int64(item.Stock))).
			Round(1)
		c.ParFill = decimal.NullDecimal{Decimal: fill, Valid: true}
	}

	for _, r := range statusRules {
		if r.match(&c) {
			c.Status = r.status
			break
		}
	}
	return c
}

func exchangeState(daysLeft int) ExchangeState {
	switch {
	case daysLeft <= 0:
		return ExchangeOverdue
	case daysLeft <= ExpiryWarningDays:
		return ExchangeDueSoon
	default:
		return ExchangeScheduled
	}
}

// ClassifyAll classifies items in input order.
func ClassifyAll(items []model.InventoryItem, today time.Time) []ClassifiedItem {
	out := make([]ClassifiedItem, 0, len(items))
	for _, item := range items {
		out = append(out, Classify(item, today))
	}
	return out
}
