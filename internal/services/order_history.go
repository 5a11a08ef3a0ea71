package services

import (
	"context"

	"go.uber.org/zap"

	"dispatch-system/internal/dto"
	"dispatch-system/internal/entities"
	"dispatch-system/internal/repositories"
)

type OrderHistoryServiceInterface interface {
	GetOrderHistory(ctx context.Context, orderID uint64) ([]dto.OrderHistoryResponseDTO, error)
}

type OrderHistoryService struct {
	historyRepo repositories.OrderHistoryRepositoryInterface
	logger      *zap.Logger
}

func NewOrderHistoryService(historyRepo repositories.OrderHistoryRepositoryInterface, logger *zap.Logger) OrderHistoryServiceInterface {
	return &OrderHistoryService{historyRepo: historyRepo, logger: logger}
}

// GetOrderHistory returns the audit trail newest-first.
func (s *OrderHistoryService) GetOrderHistory(ctx context.Context, orderID uint64) ([]dto.OrderHistoryResponseDTO, error) {
	records, err := s.historyRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	list := make([]dto.OrderHistoryResponseDTO, 0, len(records))
	for i := range records {
		list = append(list, *toOrderHistoryResponse(&records[i]))
	}
	return list, nil
}

func toOrderHistoryResponse(h *entities.OrderHistory) *dto.OrderHistoryResponseDTO {
	resp := &dto.OrderHistoryResponseDTO{
		ID:        h.ID,
		OrderID:   h.OrderID,
		UserName:  h.UserName.String,
		Action:    h.Action,
		FieldName: h.FieldName.String,
		OldValue:  h.OldValue.String,
		NewValue:  h.NewValue.String,
		CreatedAt: formatTimestamp(h.CreatedAt),
	}
	if h.UserID.Valid {
		resp.UserID = uint64(h.UserID.Int64)
	}
	return resp
}
