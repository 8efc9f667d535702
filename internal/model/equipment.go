package model

import "time"

// EquipmentUnit is a reusable asset that gets a daily readiness check.
type EquipmentUnit struct {
	ID                  int64      `json:"id"`
	Name                string     `json:"name"`
	AssetCode           string     `json:"asset_code,omitempty"`
	SerialNumber        string     `json:"serial_number,omitempty"`
	LastMaintenanceDate *time.Time `json:"last_maintenance_date,omitempty"`
	MaintenanceNote     string     `json:"maintenance_note,omitempty"`
	ImageMime           string     `json:"image_mime,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// CheckStatus is the outcome recorded by a daily equipment check.
type CheckStatus string

// Check statuses.
const (
	CheckReady          CheckStatus = "READY"
	CheckNotReady       CheckStatus = "NOT_READY"
	CheckBorrowed       CheckStatus = "BORROWED"
	CheckAwaitingRepair CheckStatus = "AWAITING_REPAIR"
)

// Valid reports whether s is one of the four recordable statuses.
func (s CheckStatus) Valid() bool {
	switch s {
	case CheckReady, CheckNotReady, CheckBorrowed, CheckAwaitingRepair:
		return true
	}
	return false
}

// CheckRecord is one append-only entry in an equipment unit's check log.
type CheckRecord struct {
	ID          int64       `json:"id"`
	EquipmentID int64       `json:"equipment_id"`
	CheckDate   *time.Time  `json:"check_date,omitempty"`
	CheckTime   string      `json:"check_time,omitempty"`
	Status      CheckStatus `json:"status"`
	BorrowedTo  string      `json:"borrowed_to,omitempty"`
	Remark      string      `json:"remark,omitempty"`
	CheckedBy   string      `json:"checked_by,omitempty"`
}
