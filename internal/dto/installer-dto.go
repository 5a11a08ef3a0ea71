package dto

import (
	"github.com/aarondl/null/v8"
)

type CreateInstallerDTO struct {
	Name   string `json:"name" validate:"required,min=2,max=255"`
	Email  string `json:"email,omitempty" validate:"omitempty,email"`
	Phone  string `json:"phone,omitempty"`
	Skills string `json:"skills,omitempty"`
	UserID uint64 `json:"user_id,omitempty"`
}

type BulkCreateInstallersDTO struct {
	Installers []CreateInstallerDTO `json:"installers" validate:"required,min=1,dive"`
}

type UpdateInstallerDTO struct {
	Name     null.String `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Email    null.String `json:"email,omitempty" validate:"omitempty,email"`
	Phone    null.String `json:"phone,omitempty"`
	Skills   null.String `json:"skills,omitempty"`
	IsActive null.Bool   `json:"is_active,omitempty"`
}

type InstallerResponseDTO struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Skills   string `json:"skills,omitempty"`
	IsActive bool   `json:"is_active"`
	UserID   uint64 `json:"user_id,omitempty"`

	// Number of active assignments, for the schedule grid.
	ActiveAssignments uint64 `json:"active_assignments"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type InstallerListResponseDTO struct {
	List       []InstallerResponseDTO `json:"list"`
	TotalCount uint64                 `json:"total_count"`
}
