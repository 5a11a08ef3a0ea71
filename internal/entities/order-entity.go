package entities

import (
	"database/sql"

	"dispatch-system/pkg/types"
)

// Order is a unit of work at a customer site. Status values and priorities
// are closed enums enforced by CHECK constraints (see migrations).
type Order struct {
	ID            uint64         `json:"id" db:"id"`
	OrderNumber   string         `json:"order_number" db:"order_number"`
	ServiceNumber sql.NullString `json:"service_number" db:"service_number"`
	TicketNumber  sql.NullString `json:"ticket_number" db:"ticket_number"`

	CustomerName  sql.NullString `json:"customer_name" db:"customer_name"`
	CustomerPhone sql.NullString `json:"customer_phone" db:"customer_phone"`
	CustomerEmail sql.NullString `json:"customer_email" db:"customer_email"`
	Address       sql.NullString `json:"address" db:"address"`
	BuildingName  sql.NullString `json:"building_name" db:"building_name"`

	// AppointmentTime is free text; multiple formats are tolerated upstream
	// and normalized through pkg/utils time helpers at the edges.
	AppointmentDate   sql.NullTime   `json:"appointment_date" db:"appointment_date"`
	AppointmentTime   sql.NullString `json:"appointment_time" db:"appointment_time"`
	EstimatedDuration int            `json:"estimated_duration" db:"estimated_duration"`

	ServiceType   sql.NullString `json:"service_type" db:"service_type"`
	SalesModiType sql.NullString `json:"sales_modi_type" db:"sales_modi_type"`
	Priority      string         `json:"priority" db:"priority"`

	Status           string         `json:"status" db:"status"`
	RescheduleReason sql.NullString `json:"reschedule_reason" db:"reschedule_reason"`
	RescheduledDate  sql.NullTime   `json:"rescheduled_date" db:"rescheduled_date"`
	RescheduledTime  sql.NullString `json:"rescheduled_time" db:"rescheduled_time"`

	DocketFileURL  sql.NullString `json:"docket_file_url" db:"docket_file_url"`
	DocketFileName sql.NullString `json:"docket_file_name" db:"docket_file_name"`

	Notes sql.NullString `json:"notes" db:"notes"`

	types.BaseEntity
}
