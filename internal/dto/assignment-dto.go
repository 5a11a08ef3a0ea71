package dto

import (
	"github.com/aarondl/null/v8"
)

type CreateAssignmentDTO struct {
	OrderID       uint64 `json:"order_id" validate:"required,gt=0"`
	InstallerID   uint64 `json:"installer_id" validate:"required,gt=0"`
	ScheduledDate string `json:"scheduled_date" validate:"required"`
	StartTime     string `json:"start_time" validate:"required,slot_time"`
	EndTime       string `json:"end_time" validate:"required,slot_time"`
	Notes         string `json:"notes,omitempty"`
}

// UpdateAssignmentDTO changes status/notes/schedule of an existing row. If
// the installer or schedule fields differ from the stored values the history
// action becomes "reassigned"/"updated" accordingly.
type UpdateAssignmentDTO struct {
	InstallerID   null.Int64  `json:"installer_id,omitempty" validate:"omitempty,gt=0"`
	ScheduledDate null.String `json:"scheduled_date,omitempty"`
	StartTime     null.String `json:"start_time,omitempty" validate:"omitempty,slot_time"`
	EndTime       null.String `json:"end_time,omitempty" validate:"omitempty,slot_time"`
	Status        null.String `json:"status,omitempty" validate:"omitempty,assignment_status"`
	Notes         null.String `json:"notes,omitempty"`
}

// ReassignAssignmentDTO moves an assignment to a new installer/slot as one
// atomic operation (delete + recreate under the hood).
type ReassignAssignmentDTO struct {
	NewInstallerID uint64 `json:"new_installer_id" validate:"required,gt=0"`
	ScheduledDate  string `json:"scheduled_date" validate:"required"`
	StartTime      string `json:"start_time" validate:"required,slot_time"`
	EndTime        string `json:"end_time" validate:"required,slot_time"`
	Notes          string `json:"notes,omitempty"`
}

type AssignmentResponseDTO struct {
	ID          uint64 `json:"id"`
	OrderID     uint64 `json:"order_id"`
	InstallerID uint64 `json:"installer_id"`

	OrderNumber   string `json:"order_number,omitempty"`
	InstallerName string `json:"installer_name,omitempty"`
	CustomerName  string `json:"customer_name,omitempty"`
	Address       string `json:"address,omitempty"`

	ScheduledDate      string `json:"scheduled_date"`
	ScheduledStartTime string `json:"scheduled_start_time"`
	ScheduledEndTime   string `json:"scheduled_end_time"`

	Status    string `json:"status"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type AssignmentListResponseDTO struct {
	List       []AssignmentResponseDTO `json:"list"`
	TotalCount uint64                  `json:"total_count"`
}
