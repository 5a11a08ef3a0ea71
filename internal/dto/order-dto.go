package dto

import (
	"github.com/aarondl/null/v8"
)

type CreateOrderDTO struct {
	OrderNumber   string `json:"order_number" validate:"required,min=1,max=64"`
	ServiceNumber string `json:"service_number,omitempty" validate:"omitempty,max=64"`
	TicketNumber  string `json:"ticket_number,omitempty" validate:"omitempty,max=64"`

	CustomerName  string `json:"customer_name,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty" validate:"omitempty,email"`
	Address       string `json:"address,omitempty"`
	BuildingName  string `json:"building_name,omitempty"`

	// Tolerated in several formats; parsed with ParseAppointmentDate.
	AppointmentDate   string `json:"appointment_date,omitempty"`
	AppointmentTime   string `json:"appointment_time,omitempty"`
	EstimatedDuration int    `json:"estimated_duration,omitempty" validate:"omitempty,gt=0"`

	ServiceType   string `json:"service_type,omitempty"`
	SalesModiType string `json:"sales_modi_type,omitempty"`
	Priority      string `json:"priority,omitempty" validate:"omitempty,order_priority"`

	Notes string `json:"notes,omitempty"`
}

type BulkCreateOrdersDTO struct {
	Orders []CreateOrderDTO `json:"orders" validate:"required,min=1,dive"`
}

// UpdateOrderDTO carries PATCH semantics: only Valid fields are applied and
// each applied change becomes one history row.
type UpdateOrderDTO struct {
	OrderNumber   null.String `json:"order_number,omitempty" validate:"omitempty,min=1,max=64"`
	ServiceNumber null.String `json:"service_number,omitempty"`
	TicketNumber  null.String `json:"ticket_number,omitempty"`

	CustomerName  null.String `json:"customer_name,omitempty"`
	CustomerPhone null.String `json:"customer_phone,omitempty"`
	CustomerEmail null.String `json:"customer_email,omitempty" validate:"omitempty,email"`
	Address       null.String `json:"address,omitempty"`
	BuildingName  null.String `json:"building_name,omitempty"`

	AppointmentDate   null.String `json:"appointment_date,omitempty"`
	AppointmentTime   null.String `json:"appointment_time,omitempty"`
	EstimatedDuration null.Int64  `json:"estimated_duration,omitempty" validate:"omitempty,gt=0"`

	ServiceType   null.String `json:"service_type,omitempty"`
	SalesModiType null.String `json:"sales_modi_type,omitempty"`
	Priority      null.String `json:"priority,omitempty" validate:"omitempty,order_priority"`

	Status           null.String `json:"status,omitempty" validate:"omitempty,order_status"`
	RescheduleReason null.String `json:"reschedule_reason,omitempty" validate:"omitempty,reschedule_reason"`
	RescheduledDate  null.String `json:"rescheduled_date,omitempty"`
	RescheduledTime  null.String `json:"rescheduled_time,omitempty"`

	Notes null.String `json:"notes,omitempty"`
}

type UploadDocketDTO struct {
	OrderID  uint64 `json:"order_id" validate:"required,gt=0"`
	FileData string `json:"file_data" validate:"required"`
	FileName string `json:"file_name" validate:"required"`
	FileType string `json:"file_type,omitempty"`
}

type OrderResponseDTO struct {
	ID            uint64 `json:"id"`
	OrderNumber   string `json:"order_number"`
	ServiceNumber string `json:"service_number,omitempty"`
	TicketNumber  string `json:"ticket_number,omitempty"`

	CustomerName  string `json:"customer_name,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	Address       string `json:"address,omitempty"`
	BuildingName  string `json:"building_name,omitempty"`

	AppointmentDate   string `json:"appointment_date,omitempty"`
	AppointmentTime   string `json:"appointment_time,omitempty"`
	EstimatedDuration int    `json:"estimated_duration"`

	ServiceType   string `json:"service_type,omitempty"`
	SalesModiType string `json:"sales_modi_type,omitempty"`
	Priority      string `json:"priority"`

	Status           string `json:"status"`
	RescheduleReason string `json:"reschedule_reason,omitempty"`
	RescheduledDate  string `json:"rescheduled_date,omitempty"`
	RescheduledTime  string `json:"rescheduled_time,omitempty"`

	DocketFileURL  string `json:"docket_file_url,omitempty"`
	DocketFileName string `json:"docket_file_name,omitempty"`

	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type OrderListResponseDTO struct {
	List       []OrderResponseDTO `json:"list"`
	TotalCount uint64             `json:"total_count"`
}
