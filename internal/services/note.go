package services

import (
	"context"

	"go.uber.org/zap"

	"dispatch-system/internal/dto"
	"dispatch-system/internal/entities"
	"dispatch-system/internal/repositories"
	"dispatch-system/pkg/constants"
	"dispatch-system/pkg/types"
	"dispatch-system/pkg/utils"
)

type NoteServiceInterface interface {
	GetNotes(ctx context.Context, filter types.Filter) (*dto.NoteListResponseDTO, error)
	FindNote(ctx context.Context, id uint64) (*dto.NoteResponseDTO, error)
	CreateNote(ctx context.Context, payload dto.CreateNoteDTO) (*dto.NoteResponseDTO, error)
	UpdateNote(ctx context.Context, id uint64, payload dto.UpdateNoteDTO) (*dto.NoteResponseDTO, error)
	DeleteNote(ctx context.Context, id uint64) error
}

type NoteService struct {
	noteRepo repositories.NoteRepositoryInterface
	logger   *zap.Logger
}

func NewNoteService(noteRepo repositories.NoteRepositoryInterface, logger *zap.Logger) NoteServiceInterface {
	return &NoteService{noteRepo: noteRepo, logger: logger}
}

func (s *NoteService) GetNotes(ctx context.Context, filter types.Filter) (*dto.NoteListResponseDTO, error) {
	notes, total, err := s.noteRepo.GetNotes(ctx, filter)
	if err != nil {
		return nil, err
	}
	list := make([]dto.NoteResponseDTO, 0, len(notes))
	for i := range notes {
		list = append(list, *toNoteResponse(&notes[i]))
	}
	return &dto.NoteListResponseDTO{List: list, TotalCount: total}, nil
}

func (s *NoteService) FindNote(ctx context.Context, id uint64) (*dto.NoteResponseDTO, error) {
	note, err := s.noteRepo.FindNoteByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toNoteResponse(note), nil
}

func (s *NoteService) CreateNote(ctx context.Context, payload dto.CreateNoteDTO) (*dto.NoteResponseDTO, error) {
	actorID, _ := actorFromCtx(ctx)

	note := &entities.Note{
		ServiceNumber: nullString(payload.ServiceNumber),
		OrderNumber:   nullString(payload.OrderNumber),
		CustomerName:  nullString(payload.CustomerName),
		NoteType:      payload.NoteType,
		Priority:      payload.Priority,
		Status:        constants.NoteStatusOpen,
		Content:       payload.Content,
		CreatedBy:     actorID,
	}
	if note.Priority == "" {
		note.Priority = constants.PriorityMedium
	}

	id, err := s.noteRepo.CreateNote(ctx, note)
	if err != nil {
		return nil, err
	}
	return s.FindNote(ctx, id)
}

func (s *NoteService) UpdateNote(ctx context.Context, id uint64, payload dto.UpdateNoteDTO) (*dto.NoteResponseDTO, error) {
	fields := make(map[string]interface{})
	if payload.NoteType.Valid {
		fields["note_type"] = payload.NoteType.String
	}
	if payload.Priority.Valid {
		fields["priority"] = payload.Priority.String
	}
	if payload.Status.Valid {
		fields["status"] = payload.Status.String
	}
	if payload.Content.Valid {
		fields["content"] = payload.Content.String
	}

	if len(fields) > 0 {
		if err := s.noteRepo.UpdateNoteFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return s.FindNote(ctx, id)
}

func (s *NoteService) DeleteNote(ctx context.Context, id uint64) error {
	if err := utils.RequireAdmin(ctx); err != nil {
		return err
	}
	return s.noteRepo.DeleteNote(ctx, id)
}

func toNoteResponse(n *entities.Note) *dto.NoteResponseDTO {
	return &dto.NoteResponseDTO{
		ID:            n.ID,
		ServiceNumber: n.ServiceNumber.String,
		OrderNumber:   n.OrderNumber.String,
		CustomerName:  n.CustomerName.String,
		NoteType:      n.NoteType,
		Priority:      n.Priority,
		Status:        n.Status,
		Content:       n.Content,
		CreatedAt:     formatTimestamp(n.CreatedAt),
		UpdatedAt:     formatTimestamp(n.UpdatedAt),
	}
}
