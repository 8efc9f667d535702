package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/erazemk/vozicek/internal/model"
	"github.com/erazemk/vozicek/internal/readiness"
)

func TestWriteReport(t *testing.T) {
	today := time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC)
	expiry := time.Date(2027, time.March, 15, 0, 0, 0, 0, time.UTC)
	expired := time.Date(2026, time.September, 30, 0, 0, 0, 0, time.UTC)

	snap := readiness.Snapshot{
		Items: []model.InventoryItem{
			{Name: "ETT 7.0", Stock: 2, CurrentStock: 2, ExpiryDate: &expiry, Bundle: "airway"},
			{Name: "NSS 1000ml", Stock: 20, CurrentStock: 18, ExpiryDate: &expired, Bundle: "IV"},
		},
		Equipment: []model.EquipmentUnit{{ID: 1, Name: "Defibrillator"}},
	}

	var buf bytes.Buffer
	if err := writeReport(&buf, readiness.Evaluate(snap, today)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"Readiness report for 2026-10-17",
		"NOT_READY",
		"NSS 1000ml",
		"Blocking: Defibrillator",
		"ETT exchange overdue",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
