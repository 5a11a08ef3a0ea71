package services

import (
	"context"

	"go.uber.org/zap"

	"dispatch-system/internal/dto"
	"dispatch-system/internal/entities"
	"dispatch-system/internal/repositories"
	"dispatch-system/pkg/types"
)

type AssignmentHistoryServiceInterface interface {
	GetHistory(ctx context.Context, filter types.Filter) (*dto.AssignmentHistoryListResponseDTO, error)
	GetHistoryByOrder(ctx context.Context, orderID uint64) ([]dto.AssignmentHistoryResponseDTO, error)
}

type AssignmentHistoryService struct {
	historyRepo repositories.AssignmentHistoryRepositoryInterface
	logger      *zap.Logger
}

func NewAssignmentHistoryService(historyRepo repositories.AssignmentHistoryRepositoryInterface, logger *zap.Logger) AssignmentHistoryServiceInterface {
	return &AssignmentHistoryService{historyRepo: historyRepo, logger: logger}
}

func (s *AssignmentHistoryService) GetHistory(ctx context.Context, filter types.Filter) (*dto.AssignmentHistoryListResponseDTO, error) {
	records, total, err := s.historyRepo.GetHistory(ctx, filter)
	if err != nil {
		return nil, err
	}
	list := make([]dto.AssignmentHistoryResponseDTO, 0, len(records))
	for i := range records {
		list = append(list, *toAssignmentHistoryResponse(&records[i]))
	}
	return &dto.AssignmentHistoryListResponseDTO{List: list, TotalCount: total}, nil
}

func (s *AssignmentHistoryService) GetHistoryByOrder(ctx context.Context, orderID uint64) ([]dto.AssignmentHistoryResponseDTO, error) {
	records, err := s.historyRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	list := make([]dto.AssignmentHistoryResponseDTO, 0, len(records))
	for i := range records {
		list = append(list, *toAssignmentHistoryResponse(&records[i]))
	}
	return list, nil
}

func toAssignmentHistoryResponse(h *entities.AssignmentHistory) *dto.AssignmentHistoryResponseDTO {
	resp := &dto.AssignmentHistoryResponseDTO{
		ID:            h.ID,
		OrderID:       h.OrderID,
		OrderNumber:   h.OrderNumber,
		InstallerID:   h.InstallerID,
		InstallerName: h.InstallerName,

		ScheduledDate:      h.ScheduledDate.Format("2006-01-02"),
		ScheduledStartTime: h.ScheduledStartTime,
		ScheduledEndTime:   h.ScheduledEndTime,

		Action:         h.Action,
		AssignedByName: h.AssignedByName.String,
		Notes:          h.Notes.String,
		CreatedAt:      formatTimestamp(h.CreatedAt),
	}
	if h.AssignmentID.Valid {
		resp.AssignmentID = uint64(h.AssignmentID.Int64)
	}
	if h.AssignedBy.Valid {
		resp.AssignedBy = uint64(h.AssignedBy.Int64)
	}
	return resp
}
