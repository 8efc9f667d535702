package readiness

import (
	"time"

	"github.com/erazemk/vozicek/internal/model"
)

// maxWarningSamples bounds how many malformed values a snapshot keeps.
const maxWarningSamples = 5

// Warnings collects data-quality problems found while building a snapshot.
type Warnings struct {
	MalformedDates int      `json:"malformed_dates"`
	MalformedStock int      `json:"malformed_stock"`
	Samples        []string `json:"samples,omitempty"`
}

// MalformedDate records one unparseable date value.
func (w *Warnings) MalformedDate(value string) {
	w.MalformedDates++
	w.sample(value)
}

// MalformedStockValue records one stock count that was not an integer.
func (w *Warnings) MalformedStockValue(value string) {
	w.MalformedStock++
	w.sample(value)
}

// Total is the number of problems recorded.
func (w Warnings) Total() int {
	return w.MalformedDates + w.MalformedStock
}

func (w *Warnings) sample(value string) {
	if len(w.Samples) < maxWarningSamples {
		w.Samples = append(w.Samples, value)
	}
}

// Snapshot is a point-in-time copy of the stored records. Callers own it and
// decide when it is too old; nothing in this package refreshes it.
type Snapshot struct {
	Items     []model.InventoryItem `json:"items"`
	Equipment []model.EquipmentUnit `json:"equipment"`
	Checks    []model.CheckRecord   `json:"checks"`
	TakenAt   time.Time             `json:"taken_at"`
	MaxAge    time.Duration         `json:"max_age"`
	Warnings  Warnings              `json:"warnings"`
}

// Stale reports whether the snapshot is older than its max age at now.
// A zero MaxAge means the snapshot never goes stale.
func (s *Snapshot) Stale(now time.Time) bool {
	if s == nil {
		return true
	}
	if s.MaxAge <= 0 {
		return false
	}
	return now.Sub(s.TakenAt) > s.MaxAge
}

// Report is everything derived from a snapshot for one reference day.
type Report struct {
	Date     time.Time        `json:"date"`
	Items    []ClassifiedItem `json:"items"`
	Bundles  []BundleVerdict  `json:"bundles"`
	Alerts   Alerts           `json:"alerts"`
	Counts   AlertCounts      `json:"counts"`
	Fleet    FleetSummary     `json:"fleet"`
	Warnings Warnings         `json:"warnings"`
}

// Evaluate classifies and aggregates the whole snapshot relative to today.
// Items are returned sorted by expiry date, then name.
func Evaluate(s Snapshot, today time.Time) Report {
	classified := ClassifyAll(s.Items, today)
	alerts := BuildAlerts(classified)
	bundles := AggregateBundles(classified)
	if bundles == nil {
		bundles = []BundleVerdict{}
	}
	return Report{
		Date:     Day(today),
		Items:    SortByExpiry(classified),
		Bundles:  bundles,
		Alerts:   alerts,
		Counts:   alerts.Counts(),
		Fleet:    SummarizeFleet(s.Equipment, s.Checks),
		Warnings: s.Warnings,
	}
}
