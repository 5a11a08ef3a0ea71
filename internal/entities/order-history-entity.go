package entities

import (
	"database/sql"
	"time"
)

// OrderHistory is one append-only row per field change. A null UserID means
// the change was system-initiated (e.g. an assignment side effect).
type OrderHistory struct {
	ID        uint64         `json:"id" db:"id"`
	OrderID   uint64         `json:"order_id" db:"order_id"`
	UserID    sql.NullInt64  `json:"user_id" db:"user_id"`
	UserName  sql.NullString `json:"user_name" db:"user_name"`
	Action    string         `json:"action" db:"action"`
	FieldName sql.NullString `json:"field_name" db:"field_name"`
	OldValue  sql.NullString `json:"old_value" db:"old_value"`
	NewValue  sql.NullString `json:"new_value" db:"new_value"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}
