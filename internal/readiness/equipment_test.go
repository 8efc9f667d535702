package readiness

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/erazemk/vozicek/internal/model"
)

func TestResolveLatestStatusNoRecords(t *testing.T) {
	got := ResolveLatestStatus(nil)
	if got.Status != StatusNotYetChecked {
		t.Errorf("status = %s, want %s", got.Status, StatusNotYetChecked)
	}
	if got.Checked() {
		t.Error("expected unchecked unit")
	}
	if got.Status == model.CheckNotReady || got.Status.Valid() {
		t.Error("not-yet-checked must differ from every recordable status")
	}
}

func TestResolveLatestStatusHighestID(t *testing.T) {
	records := []model.CheckRecord{
		{ID: 4, EquipmentID: 1, Status: model.CheckBorrowed, BorrowedTo: "ICU"},
		{ID: 9, EquipmentID: 1, Status: model.CheckAwaitingRepair, Remark: "cracked housing"},
		{ID: 7, EquipmentID: 1, Status: model.CheckReady},
	}

	got := ResolveLatestStatus(records)
	if got.Status != model.CheckAwaitingRepair {
		t.Errorf("status = %s, want %s", got.Status, model.CheckAwaitingRepair)
	}
	if got.Record == nil || got.Record.ID != 9 {
		t.Fatalf("expected record 9, got %+v", got.Record)
	}

	// The returned record is a copy.
	got.Record.Remark = "changed"
	if records[1].Remark != "cracked housing" {
		t.Error("ResolveLatestStatus exposed the caller's record")
	}
}

func TestSummarizeFleet(t *testing.T) {
	units := []model.EquipmentUnit{
		{ID: 1, Name: "Enerjet"},
		{ID: 2, Name: "CO2 laser Sharplan"},
		{ID: 3, Name: "BP monitor Vismo"},
		{ID: 4, Name: "Suction pump"},
		{ID: 5, Name: "Defibrillator"},
	}
	checks := []model.CheckRecord{
		{ID: 1, EquipmentID: 1, Status: model.CheckNotReady},
		{ID: 2, EquipmentID: 2, Status: model.CheckReady},
		{ID: 3, EquipmentID: 1, Status: model.CheckReady},
		{ID: 4, EquipmentID: 3, Status: model.CheckBorrowed, BorrowedTo: "Ward 5"},
		{ID: 5, EquipmentID: 4, Status: model.CheckAwaitingRepair},
	}

	s := SummarizeFleet(units, checks)
	if s.Total != 5 || s.Ready != 2 || s.Borrowed != 1 || s.NotReady != 1 || s.Unchecked != 1 {
		t.Errorf("counts = total %d ready %d borrowed %d not ready %d unchecked %d",
			s.Total, s.Ready, s.Borrowed, s.NotReady, s.Unchecked)
	}
	if s.Verdict != VerdictNotReady {
		t.Errorf("verdict = %s, want %s", s.Verdict, VerdictNotReady)
	}
	if !reflect.DeepEqual(s.Blocking, []string{"Defibrillator", "Suction pump"}) {
		t.Errorf("blocking = %v, want [Defibrillator Suction pump]", s.Blocking)
	}
	if !s.FillRatio.Valid || !s.FillRatio.Decimal.Equal(decimal.NewFromInt(40)) {
		t.Errorf("fill ratio = %v, want 40", s.FillRatio)
	}

	var names []string
	for _, u := range s.Units {
		names = append(names, u.Name)
	}
	want := []string{"BP monitor Vismo", "CO2 laser Sharplan", "Defibrillator", "Enerjet", "Suction pump"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("unit order = %v, want %v", names, want)
	}
	if units[0].Name != "Enerjet" {
		t.Error("SummarizeFleet reordered the caller's slice")
	}
}

func TestSummarizeFleetAllDeployable(t *testing.T) {
	units := []model.EquipmentUnit{{ID: 1, Name: "Enerjet"}, {ID: 2, Name: "Laser"}}
	checks := []model.CheckRecord{
		{ID: 1, EquipmentID: 1, Status: model.CheckReady},
		{ID: 2, EquipmentID: 2, Status: model.CheckBorrowed},
	}

	s := SummarizeFleet(units, checks)
	if s.Verdict != VerdictReady {
		t.Errorf("verdict = %s, want %s (blocking %v)", s.Verdict, VerdictReady, s.Blocking)
	}

	empty := SummarizeFleet(nil, nil)
	if empty.Total != 0 || empty.FillRatio.Valid || empty.Verdict != VerdictReady {
		t.Errorf("unexpected summary for empty fleet: %+v", empty)
	}
}
