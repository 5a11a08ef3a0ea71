package types

import (
	"database/sql"
	"time"
)

// BaseEntity carries the audit timestamps every table has.
type BaseEntity struct {
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SoftDelete marks rows that are hidden instead of removed.
type SoftDelete struct {
	DeletedAt sql.NullTime `json:"deleted_at,omitempty" db:"deleted_at"`
}
