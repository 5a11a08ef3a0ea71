package dto

import (
	"github.com/aarondl/null/v8"
)

type CreateNoteDTO struct {
	ServiceNumber string `json:"service_number,omitempty"`
	OrderNumber   string `json:"order_number,omitempty"`
	CustomerName  string `json:"customer_name,omitempty"`

	NoteType string `json:"note_type" validate:"required,note_type"`
	Priority string `json:"priority,omitempty" validate:"omitempty,order_priority"`
	Content  string `json:"content" validate:"required,min=1"`
}

type UpdateNoteDTO struct {
	NoteType null.String `json:"note_type,omitempty" validate:"omitempty,note_type"`
	Priority null.String `json:"priority,omitempty" validate:"omitempty,order_priority"`
	Status   null.String `json:"status,omitempty" validate:"omitempty,note_status"`
	Content  null.String `json:"content,omitempty" validate:"omitempty,min=1"`
}

type NoteResponseDTO struct {
	ID            uint64 `json:"id"`
	ServiceNumber string `json:"service_number,omitempty"`
	OrderNumber   string `json:"order_number,omitempty"`
	CustomerName  string `json:"customer_name,omitempty"`

	NoteType string `json:"note_type"`
	Priority string `json:"priority"`
	Status   string `json:"status"`
	Content  string `json:"content"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type NoteListResponseDTO struct {
	List       []NoteResponseDTO `json:"list"`
	TotalCount uint64            `json:"total_count"`
}
