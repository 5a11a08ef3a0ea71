package entities

import (
	"database/sql"

	"dispatch-system/pkg/types"
)

// Note is a freestanding incident record. It is decoupled from Order by
// value (denormalized service/order/customer fields, no FK) so notes survive
// order deletion.
type Note struct {
	ID            uint64         `json:"id" db:"id"`
	ServiceNumber sql.NullString `json:"service_number" db:"service_number"`
	OrderNumber   sql.NullString `json:"order_number" db:"order_number"`
	CustomerName  sql.NullString `json:"customer_name" db:"customer_name"`

	NoteType string `json:"note_type" db:"note_type"`
	Priority string `json:"priority" db:"priority"`
	Status   string `json:"status" db:"status"`
	Content  string `json:"content" db:"content"`

	CreatedBy sql.NullInt64 `json:"created_by" db:"created_by"`

	types.BaseEntity
}
