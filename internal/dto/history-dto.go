package dto

type OrderHistoryResponseDTO struct {
	ID        uint64 `json:"id"`
	OrderID   uint64 `json:"order_id"`
	UserID    uint64 `json:"user_id,omitempty"`
	UserName  string `json:"user_name,omitempty"`
	Action    string `json:"action"`
	FieldName string `json:"field_name,omitempty"`
	OldValue  string `json:"old_value,omitempty"`
	NewValue  string `json:"new_value,omitempty"`
	CreatedAt string `json:"created_at"`
}

type AssignmentHistoryResponseDTO struct {
	ID           uint64 `json:"id"`
	AssignmentID uint64 `json:"assignment_id,omitempty"`

	OrderID       uint64 `json:"order_id"`
	OrderNumber   string `json:"order_number"`
	InstallerID   uint64 `json:"installer_id"`
	InstallerName string `json:"installer_name"`

	ScheduledDate      string `json:"scheduled_date"`
	ScheduledStartTime string `json:"scheduled_start_time"`
	ScheduledEndTime   string `json:"scheduled_end_time"`

	Action         string `json:"action"`
	AssignedBy     uint64 `json:"assigned_by,omitempty"`
	AssignedByName string `json:"assigned_by_name,omitempty"`
	Notes          string `json:"notes,omitempty"`

	CreatedAt string `json:"created_at"`
}

type AssignmentHistoryListResponseDTO struct {
	List       []AssignmentHistoryResponseDTO `json:"list"`
	TotalCount uint64                         `json:"total_count"`
}
