package entities

import (
	"database/sql"
	"time"
)

// AssignmentHistory is one append-only row per assignment lifecycle event.
//
// Order number and installer name are denormalized at write time on purpose:
// history must stay readable after the referenced order or installer is
// renamed or deleted. AssignmentID goes null once the assignment row itself
// is deleted.
type AssignmentHistory struct {
	ID           uint64        `json:"id" db:"id"`
	AssignmentID sql.NullInt64 `json:"assignment_id" db:"assignment_id"`

	OrderID       uint64 `json:"order_id" db:"order_id"`
	OrderNumber   string `json:"order_number" db:"order_number"`
	InstallerID   uint64 `json:"installer_id" db:"installer_id"`
	InstallerName string `json:"installer_name" db:"installer_name"`

	ScheduledDate      time.Time `json:"scheduled_date" db:"scheduled_date"`
	ScheduledStartTime string    `json:"scheduled_start_time" db:"scheduled_start_time"`
	ScheduledEndTime   string    `json:"scheduled_end_time" db:"scheduled_end_time"`

	Action         string         `json:"action" db:"action"`
	AssignedBy     sql.NullInt64  `json:"assigned_by" db:"assigned_by"`
	AssignedByName sql.NullString `json:"assigned_by_name" db:"assigned_by_name"`
	Notes          sql.NullString `json:"notes" db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
