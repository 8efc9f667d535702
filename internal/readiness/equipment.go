package readiness

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/erazemk/vozicek/internal/model"
)

// StatusNotYetChecked is reported for units with no check history. It is not
// a recordable check status.
const StatusNotYetChecked model.CheckStatus = "NOT_YET_CHECKED"

// LatestStatus is the current status of one equipment unit.
type LatestStatus struct {
	Status model.CheckStatus  `json:"status"`
	Record *model.CheckRecord `json:"record,omitempty"`
}

// Checked reports whether the unit has at least one check record.
func (l LatestStatus) Checked() bool {
	return l.Record != nil
}

// ResolveLatestStatus picks the record with the highest ID. Superseded
// records never influence the result.
func ResolveLatestStatus(records []model.CheckRecord) LatestStatus {
	if len(records) == 0 {
		return LatestStatus{Status: StatusNotYetChecked}
	}

	latest := records[0]
	for _, r := range records[1:] {
		if r.ID > latest.ID {
			latest = r
		}
	}
	return LatestStatus{Status: latest.Status, Record: &latest}
}

// UnitStatus pairs an equipment unit with its latest status.
type UnitStatus struct {
	model.EquipmentUnit
	Latest LatestStatus `json:"latest"`
}

// FleetSummary aggregates the latest status of every equipment unit.
type FleetSummary struct {
	Total     int                 `json:"total"`
	Ready     int                 `json:"ready"`
	Borrowed  int                 `json:"borrowed"`
	NotReady  int                 `json:"not_ready"`
	Unchecked int                 `json:"unchecked"`
	FillRatio decimal.NullDecimal `json:"fill_ratio"`
	Verdict   Verdict             `json:"verdict"`
	Blocking  []string            `json:"blocking"`
	Units     []UnitStatus        `json:"units"`
}

// SummarizeFleet resolves the latest status of each unit from the full check
// history and counts the fleet by status. Units are returned ordered by name.
// A borrowed unit is deployable elsewhere and does not block the fleet; an
// unchecked unit does.
func SummarizeFleet(units []model.EquipmentUnit, checks []model.CheckRecord) FleetSummary {
	byUnit := make(map[int64][]model.CheckRecord)
	for _, c := range checks {
		byUnit[c.EquipmentID] = append(byUnit[c.EquipmentID], c)
	}

	sorted := make([]model.EquipmentUnit, len(units))
	copy(sorted, units)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	s := FleetSummary{
		Total:    len(sorted),
		Blocking: []string{},
		Units:    make([]UnitStatus, 0, len(sorted)),
	}
	for _, u := range sorted {
		latest := ResolveLatestStatus(byUnit[u.ID])
		s.Units = append(s.Units, UnitStatus{EquipmentUnit: u, Latest: latest})

		switch latest.Status {
		case model.CheckReady:
			s.Ready++
		case model.CheckBorrowed:
			s.Borrowed++
		case model.CheckNotReady, model.CheckAwaitingRepair:
			s.NotReady++
			s.Blocking = append(s.Blocking, u.Name)
		default:
			s.Unchecked++
			s.Blocking = append(s.Blocking, u.Name)
		}
	}

	if s.Total > 0 {
		ratio := decimal.NewFromInt(int64(s.Ready)).
			Mul(hundred).
			Div(decimal.NewFromInt(int64(s.Total))).
			Round(1)
		s.FillRatio = decimal.NullDecimal{Decimal: ratio, Valid: true}
	}

	s.Verdict = VerdictReady
	if len(s.Blocking) > 0 {
		s.Verdict = VerdictNotReady
	}
	return s
}
