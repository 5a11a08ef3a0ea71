package entities

import (
	"dispatch-system/pkg/types"
)

// User is an authenticated account (admin or dispatcher).
type User struct {
	ID           uint64 `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"role" db:"role"`
	IsActive     bool   `json:"is_active" db:"is_active"`

	types.BaseEntity
}
