package readiness

import "sort"

// Alerts lists the items that need attention, one list per alert kind. An
// item can appear in more than one list.
type Alerts struct {
	Expired         []ClassifiedItem `json:"expired"`
	ExpiringSoon    []ClassifiedItem `json:"expiring_soon"`
	OutOfStock      []ClassifiedItem `json:"out_of_stock"`
	LowStock        []ClassifiedItem `json:"low_stock"`
	ExchangeOverdue []ClassifiedItem `json:"exchange_overdue"`
	ExchangeDueSoon []ClassifiedItem `json:"exchange_due_soon"`
}

// AlertCounts is the size of each alert list.
type AlertCounts struct {
	Expired         int `json:"expired"`
	ExpiringSoon    int `json:"expiring_soon"`
	OutOfStock      int `json:"out_of_stock"`
	LowStock        int `json:"low_stock"`
	ExchangeOverdue int `json:"exchange_overdue"`
	ExchangeDueSoon int `json:"exchange_due_soon"`
}

// Counts returns the number of entries in each list.
func (a Alerts) Counts() AlertCounts {
	return AlertCounts{
		Expired:         len(a.Expired),
		ExpiringSoon:    len(a.ExpiringSoon),
		OutOfStock:      len(a.OutOfStock),
		LowStock:        len(a.LowStock),
		ExchangeOverdue: len(a.ExchangeOverdue),
		ExchangeDueSoon: len(a.ExchangeDueSoon),
	}
}

// Empty reports whether there is nothing to alert on.
func (a Alerts) Empty() bool {
	return a.Counts() == AlertCounts{}
}

// BuildAlerts sorts items by expiry and splits them into alert lists.
// Expiry lists are based on days to expire alone, independent of the
// single status label, so an empty and expired item shows up as both.
func BuildAlerts(items []ClassifiedItem) Alerts {
	sorted := SortByExpiry(items)

	a := Alerts{
		Expired:         []ClassifiedItem{},
		ExpiringSoon:    []ClassifiedItem{},
		OutOfStock:      []ClassifiedItem{},
		LowStock:        []ClassifiedItem{},
		ExchangeOverdue: []ClassifiedItem{},
		ExchangeDueSoon: []ClassifiedItem{},
	}
	for _, c := range sorted {
		if d := c.DaysToExpire; d != nil {
			switch {
			case *d <= 0:
				a.Expired = append(a.Expired, c)
			case *d <= ExpiryWarningDays:
				a.ExpiringSoon = append(a.ExpiringSoon, c)
			}
		}
		if c.CurrentStock <= 0 {
			a.OutOfStock = append(a.OutOfStock, c)
		} else if c.CurrentStock == 1 {
			a.LowStock = append(a.LowStock, c)
		}
		switch c.Exchange {
		case ExchangeOverdue:
			a.ExchangeOverdue = append(a.ExchangeOverdue, c)
		case ExchangeDueSoon:
			a.ExchangeDueSoon = append(a.ExchangeDueSoon, c)
		}
	}
	return a
}

// SortByExpiry returns a copy of items ordered by expiry date, then name.
// Items without an expiry date go last.
func SortByExpiry(items []ClassifiedItem) []ClassifiedItem {
	sorted := make([]ClassifiedItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].ExpiryDate, sorted[j].ExpiryDate
		switch {
		case a == nil && b == nil:
			return sorted[i].Name < sorted[j].Name
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.Before(*b)
		}
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}
