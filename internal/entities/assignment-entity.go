package entities

import (
	"database/sql"
	"time"

	"dispatch-system/pkg/types"
)

// Assignment binds one order to one installer for one scheduled slot.
//
// Two invariants are enforced by partial unique indexes over non-deleted
// rows: at most one assignment per (installer, date, start time) slot, and
// at most one active assignment per order.
type Assignment struct {
	ID          uint64 `json:"id" db:"id"`
	OrderID     uint64 `json:"order_id" db:"order_id"`
	InstallerID uint64 `json:"installer_id" db:"installer_id"`

	ScheduledDate      time.Time `json:"scheduled_date" db:"scheduled_date"`
	ScheduledStartTime string    `json:"scheduled_start_time" db:"scheduled_start_time"`
	ScheduledEndTime   string    `json:"scheduled_end_time" db:"scheduled_end_time"`

	Status string         `json:"status" db:"status"`
	Notes  sql.NullString `json:"notes" db:"notes"`

	types.BaseEntity
	types.SoftDelete
}
