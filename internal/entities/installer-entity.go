package entities

import (
	"database/sql"

	"dispatch-system/pkg/types"
)

// Installer is a service technician. Soft-disabled via IsActive, never
// auto-deleted: assignments and history keep referencing the row.
type Installer struct {
	ID       uint64         `json:"id" db:"id"`
	Name     string         `json:"name" db:"name"`
	Email    sql.NullString `json:"email" db:"email"`
	Phone    sql.NullString `json:"phone" db:"phone"`
	Skills   sql.NullString `json:"skills" db:"skills"`
	IsActive bool           `json:"is_active" db:"is_active"`
	UserID   sql.NullInt64  `json:"user_id" db:"user_id"`

	types.BaseEntity
}
