package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"dispatch-system/internal/dto"
	"dispatch-system/internal/entities"
	"dispatch-system/internal/events"
	"dispatch-system/internal/repositories"
	"dispatch-system/pkg/constants"
	apperrors "dispatch-system/pkg/errors"
	"dispatch-system/pkg/eventbus"
	"dispatch-system/pkg/filestorage"
	"dispatch-system/pkg/types"
	"dispatch-system/pkg/utils"
)

type OrderServiceInterface interface {
	GetOrders(ctx context.Context, filter types.Filter) (*dto.OrderListResponseDTO, error)
	FindOrder(ctx context.Context, id uint64) (*dto.OrderResponseDTO, error)
	CreateOrder(ctx context.Context, payload dto.CreateOrderDTO) (*dto.OrderResponseDTO, error)
	BulkCreateOrders(ctx context.Context, payload dto.BulkCreateOrdersDTO) ([]uint64, error)
	UpdateOrder(ctx context.Context, id uint64, payload dto.UpdateOrderDTO) (*dto.OrderResponseDTO, error)
	DeleteOrder(ctx context.Context, id uint64) error
	ClearAll(ctx context.Context) error
	UploadDocketFile(ctx context.Context, payload dto.UploadDocketDTO) (*dto.OrderResponseDTO, error)
}

type OrderService struct {
	orderRepo        repositories.OrderRepositoryInterface
	assignmentRepo   repositories.AssignmentRepositoryInterface
	installerRepo    repositories.InstallerRepositoryInterface
	orderHistoryRepo repositories.OrderHistoryRepositoryInterface
	txManager        repositories.TxManagerInterface
	fileStorage      filestorage.FileStorageInterface
	bus              *eventbus.Bus
	logger           *zap.Logger
}

func NewOrderService(
	orderRepo repositories.OrderRepositoryInterface,
	assignmentRepo repositories.AssignmentRepositoryInterface,
	installerRepo repositories.InstallerRepositoryInterface,
	orderHistoryRepo repositories.OrderHistoryRepositoryInterface,
	txManager repositories.TxManagerInterface,
	fileStorage filestorage.FileStorageInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) OrderServiceInterface {
	return &OrderService{
		orderRepo:        orderRepo,
		assignmentRepo:   assignmentRepo,
		installerRepo:    installerRepo,
		orderHistoryRepo: orderHistoryRepo,
		txManager:        txManager,
		fileStorage:      fileStorage,
		bus:              bus,
		logger:           logger,
	}
}

func (s *OrderService) GetOrders(ctx context.Context, filter types.Filter) (*dto.OrderListResponseDTO, error) {
	orders, total, err := s.orderRepo.GetOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	list := make([]dto.OrderResponseDTO, 0, len(orders))
	for i := range orders {
		list = append(list, *toOrderResponse(&orders[i]))
	}
	return &dto.OrderListResponseDTO{List: list, TotalCount: total}, nil
}

func (s *OrderService) FindOrder(ctx context.Context, id uint64) (*dto.OrderResponseDTO, error) {
	order, err := s.orderRepo.FindOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

func (s *OrderService) CreateOrder(ctx context.Context, payload dto.CreateOrderDTO) (*dto.OrderResponseDTO, error) {
	order, err := orderFromCreateDTO(payload)
	if err != nil {
		return nil, err
	}

	actorID, actorName := actorFromCtx(ctx)
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, err := s.orderRepo.CreateOrderInTx(ctx, tx, order)
		if err != nil {
			return err
		}
		order.ID = id
		return s.orderHistoryRepo.CreateInTx(ctx, tx, creationHistoryRow(order, payload, actorID, actorName))
	})
	if err != nil {
		return nil, err
	}

	created, err := s.orderRepo.FindOrderByID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(created), nil
}

func (s *OrderService) BulkCreateOrders(ctx context.Context, payload dto.BulkCreateOrdersDTO) ([]uint64, error) {
	actorID, actorName := actorFromCtx(ctx)

	var ids []uint64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		for i := range payload.Orders {
			order, err := orderFromCreateDTO(payload.Orders[i])
			if err != nil {
				return apperrors.NewInvalidInputError("row %d: %v", i+1, err)
			}
			id, err := s.orderRepo.CreateOrderInTx(ctx, tx, order)
			if err != nil {
				return err
			}
			order.ID = id
			if err := s.orderHistoryRepo.CreateInTx(ctx, tx,
				creationHistoryRow(order, payload.Orders[i], actorID, actorName)); err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *OrderService) UpdateOrder(ctx context.Context, id uint64, payload dto.UpdateOrderDTO) (*dto.OrderResponseDTO, error) {
	actorID, actorName := actorFromCtx(ctx)

	var newStatus string
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		prior, err := s.orderRepo.FindOrderForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}

		fields, diffs, err := buildOrderUpdate(prior, payload)
		if err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}

		if err := s.orderRepo.UpdateOrderFieldsInTx(ctx, tx, id, fields); err != nil {
			return err
		}
		for i := range diffs {
			diffs[i].UserID = actorID
			diffs[i].UserName = actorName
		}
		if err := s.orderHistoryRepo.CreateBatchInTx(ctx, tx, diffs); err != nil {
			return err
		}
		if v, ok := fields["status"]; ok {
			newStatus, _ = v.(string)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.orderRepo.FindOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publishStatusEvents(ctx, updated, newStatus)
	return toOrderResponse(updated), nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id uint64) error {
	actorID, actorName := actorFromCtx(ctx)

	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		order, err := s.orderRepo.FindOrderForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := s.assignmentRepo.SoftDeleteByOrderIDInTx(ctx, tx, id); err != nil {
			return err
		}
		// The final audit row survives the delete: order_history carries no
		// FK to orders.
		record := &entities.OrderHistory{
			OrderID:  order.ID,
			UserID:   actorID,
			UserName: actorName,
			Action:   constants.HistoryActionDeleted,
			OldValue: sql.NullString{String: order.OrderNumber, Valid: true},
		}
		if err := s.orderHistoryRepo.CreateInTx(ctx, tx, record); err != nil {
			return err
		}
		return s.orderRepo.DeleteOrderInTx(ctx, tx, id)
	})
}

// ClearAll purges assignments then orders. Role gating happens in the
// middleware chain; this re-checks to keep the guard with the operation.
func (s *OrderService) ClearAll(ctx context.Context) error {
	if err := utils.RequireAdmin(ctx); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		assignments, err := s.assignmentRepo.DeleteAllAssignmentsInTx(ctx, tx)
		if err != nil {
			return err
		}
		orders, err := s.orderRepo.DeleteAllOrdersInTx(ctx, tx)
		if err != nil {
			return err
		}
		s.logger.Warn("clear-all executed",
			zap.Int64("orders_deleted", orders),
			zap.Int64("assignments_deleted", assignments),
		)
		return nil
	})
}

func (s *OrderService) UploadDocketFile(ctx context.Context, payload dto.UploadDocketDTO) (*dto.OrderResponseDTO, error) {
	raw, err := base64.StdEncoding.DecodeString(payload.FileData)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("file_data is not valid base64")
	}

	filePath, err := s.fileStorage.Save(bytes.NewReader(raw), payload.FileName, constants.UploadContextDocket.String())
	if err != nil {
		return nil, err
	}

	actorID, actorName := actorFromCtx(ctx)
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		prior, err := s.orderRepo.FindOrderForUpdateInTx(ctx, tx, payload.OrderID)
		if err != nil {
			return err
		}
		fields := map[string]interface{}{
			"docket_file_url":  filePath,
			"docket_file_name": payload.FileName,
		}
		if err := s.orderRepo.UpdateOrderFieldsInTx(ctx, tx, payload.OrderID, fields); err != nil {
			return err
		}
		record := &entities.OrderHistory{
			OrderID:   prior.ID,
			UserID:    actorID,
			UserName:  actorName,
			Action:    constants.HistoryActionUpdated,
			FieldName: sql.NullString{String: "docket_file_url", Valid: true},
			OldValue:  prior.DocketFileURL,
			NewValue:  sql.NullString{String: filePath, Valid: true},
		}
		return s.orderHistoryRepo.CreateInTx(ctx, tx, record)
	})
	if err != nil {
		// The order write failed; the stored blob would otherwise be orphaned.
		if delErr := s.fileStorage.Delete(filePath); delErr != nil {
			s.logger.Error("failed to remove orphaned docket file", zap.String("path", filePath), zap.Error(delErr))
		}
		return nil, err
	}

	updated, err := s.orderRepo.FindOrderByID(ctx, payload.OrderID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(updated), nil
}

// publishStatusEvents fires the owner notifications tied to terminal-ish
// transitions. Runs after commit; failures never reach the caller.
func (s *OrderService) publishStatusEvents(ctx context.Context, order *entities.Order, newStatus string) {
	if newStatus == "" {
		return
	}

	installerName := s.resolveInstallerName(ctx, order.ID)
	switch newStatus {
	case constants.OrderStatusCompleted:
		s.bus.Publish(ctx, events.OrderCompletedEvent{
			OrderID:       order.ID,
			OrderNumber:   order.OrderNumber,
			CustomerName:  order.CustomerName.String,
			InstallerName: installerName,
		})
	case constants.OrderStatusRescheduled:
		s.bus.Publish(ctx, events.OrderRescheduledEvent{
			OrderID:       order.ID,
			OrderNumber:   order.OrderNumber,
			CustomerName:  order.CustomerName.String,
			InstallerName: installerName,
			Reason:        order.RescheduleReason.String,
			NewDate:       formatNullDate(order.RescheduledDate),
			NewTime:       order.RescheduledTime.String,
		})
	case constants.OrderStatusWithdrawn:
		s.bus.Publish(ctx, events.OrderWithdrawnEvent{
			OrderID:      order.ID,
			OrderNumber:  order.OrderNumber,
			CustomerName: order.CustomerName.String,
		})
	}
}

func (s *OrderService) resolveInstallerName(ctx context.Context, orderID uint64) string {
	assignment, err := s.assignmentRepo.FindActiveByOrderID(ctx, orderID)
	if err != nil {
		return ""
	}
	installer, err := s.installerRepo.FindInstallerByID(ctx, assignment.InstallerID)
	if err != nil {
		return ""
	}
	return installer.Name
}

// --- mapping helpers ---

func orderFromCreateDTO(payload dto.CreateOrderDTO) (*entities.Order, error) {
	order := &entities.Order{
		OrderNumber:       payload.OrderNumber,
		ServiceNumber:     nullString(payload.ServiceNumber),
		TicketNumber:      nullString(payload.TicketNumber),
		CustomerName:      nullString(payload.CustomerName),
		CustomerPhone:     nullString(payload.CustomerPhone),
		CustomerEmail:     nullString(payload.CustomerEmail),
		Address:           nullString(payload.Address),
		BuildingName:      nullString(payload.BuildingName),
		AppointmentTime:   nullString(utils.NormalizeTimeFormat(payload.AppointmentTime)),
		EstimatedDuration: payload.EstimatedDuration,
		ServiceType:       nullString(payload.ServiceType),
		SalesModiType:     nullString(payload.SalesModiType),
		Priority:          payload.Priority,
		Status:            constants.OrderStatusPending,
		Notes:             nullString(payload.Notes),
	}
	if order.EstimatedDuration == 0 {
		order.EstimatedDuration = constants.DefaultEstimatedDurationMinutes
	}
	if order.Priority == "" {
		order.Priority = constants.PriorityMedium
	}
	if payload.AppointmentDate != "" {
		parsed, ok := utils.ParseAppointmentDate(payload.AppointmentDate)
		if !ok {
			return nil, apperrors.NewInvalidInputError("unparseable appointment_date %q", payload.AppointmentDate)
		}
		order.AppointmentDate = sql.NullTime{Time: parsed, Valid: true}
	}
	return order, nil
}

func creationHistoryRow(order *entities.Order, payload dto.CreateOrderDTO, actorID sql.NullInt64, actorName sql.NullString) *entities.OrderHistory {
	serialized, err := json.Marshal(payload)
	if err != nil {
		serialized = []byte(order.OrderNumber)
	}
	return &entities.OrderHistory{
		OrderID:  order.ID,
		UserID:   actorID,
		UserName: actorName,
		Action:   constants.HistoryActionCreated,
		NewValue: sql.NullString{String: string(serialized), Valid: true},
	}
}

// buildOrderUpdate turns the PATCH payload into a column map plus one history
// row per actually-changed field. The reschedule guard runs here, before any
// write: entering "rescheduled" needs reason, date and time all present
// (either in this payload or already on the row).
func buildOrderUpdate(prior *entities.Order, payload dto.UpdateOrderDTO) (map[string]interface{}, []entities.OrderHistory, error) {
	fields := make(map[string]interface{})
	var diffs []entities.OrderHistory

	change := func(column, oldVal, newVal string, value interface{}) {
		fields[column] = value
		action := constants.HistoryActionUpdated
		if column == "status" {
			action = constants.HistoryActionStatusChanged
		}
		diffs = append(diffs, entities.OrderHistory{
			OrderID:   prior.ID,
			Action:    action,
			FieldName: sql.NullString{String: column, Valid: true},
			OldValue:  sql.NullString{String: oldVal, Valid: oldVal != ""},
			NewValue:  sql.NullString{String: newVal, Valid: newVal != ""},
		})
	}

	stringField := func(column string, v null.String, old sql.NullString) {
		if v.Valid && v.String != old.String {
			change(column, old.String, v.String, v.String)
		}
	}

	if payload.OrderNumber.Valid && payload.OrderNumber.String != prior.OrderNumber {
		change("order_number", prior.OrderNumber, payload.OrderNumber.String, payload.OrderNumber.String)
	}
	stringField("service_number", payload.ServiceNumber, prior.ServiceNumber)
	stringField("ticket_number", payload.TicketNumber, prior.TicketNumber)
	stringField("customer_name", payload.CustomerName, prior.CustomerName)
	stringField("customer_phone", payload.CustomerPhone, prior.CustomerPhone)
	stringField("customer_email", payload.CustomerEmail, prior.CustomerEmail)
	stringField("address", payload.Address, prior.Address)
	stringField("building_name", payload.BuildingName, prior.BuildingName)
	stringField("service_type", payload.ServiceType, prior.ServiceType)
	stringField("sales_modi_type", payload.SalesModiType, prior.SalesModiType)
	stringField("notes", payload.Notes, prior.Notes)

	if payload.Priority.Valid && payload.Priority.String != prior.Priority {
		change("priority", prior.Priority, payload.Priority.String, payload.Priority.String)
	}

	if payload.AppointmentTime.Valid {
		normalized := utils.NormalizeTimeFormat(payload.AppointmentTime.String)
		if normalized != prior.AppointmentTime.String {
			change("appointment_time", prior.AppointmentTime.String, normalized, normalized)
		}
	}
	if payload.AppointmentDate.Valid {
		parsed, ok := utils.ParseAppointmentDate(payload.AppointmentDate.String)
		if !ok {
			return nil, nil, apperrors.NewInvalidInputError("unparseable appointment_date %q", payload.AppointmentDate.String)
		}
		if !prior.AppointmentDate.Valid || !parsed.Equal(prior.AppointmentDate.Time) {
			change("appointment_date", formatNullDate(prior.AppointmentDate), parsed.Format("2006-01-02"), parsed)
		}
	}
	if payload.EstimatedDuration.Valid && int(payload.EstimatedDuration.Int64) != prior.EstimatedDuration {
		change("estimated_duration",
			fmt.Sprintf("%d", prior.EstimatedDuration),
			fmt.Sprintf("%d", payload.EstimatedDuration.Int64),
			payload.EstimatedDuration.Int64)
	}

	var rescheduledDate sql.NullTime
	if payload.RescheduledDate.Valid {
		parsed, ok := utils.ParseAppointmentDate(payload.RescheduledDate.String)
		if !ok {
			return nil, nil, apperrors.NewInvalidInputError("unparseable rescheduled_date %q", payload.RescheduledDate.String)
		}
		rescheduledDate = sql.NullTime{Time: parsed, Valid: true}
	}

	if payload.Status.Valid && payload.Status.String != prior.Status {
		if payload.Status.String == constants.OrderStatusRescheduled {
			reason := coalesce(payload.RescheduleReason, prior.RescheduleReason)
			newTime := coalesce(payload.RescheduledTime, prior.RescheduledTime)
			hasDate := rescheduledDate.Valid || prior.RescheduledDate.Valid
			if reason == "" || newTime == "" || !hasDate {
				return nil, nil, apperrors.NewInvalidInputError(
					"rescheduling requires reschedule_reason, rescheduled_date and rescheduled_time")
			}
		}
		change("status", prior.Status, payload.Status.String, payload.Status.String)
	}

	stringField("reschedule_reason", payload.RescheduleReason, prior.RescheduleReason)
	if rescheduledDate.Valid {
		if !prior.RescheduledDate.Valid || !rescheduledDate.Time.Equal(prior.RescheduledDate.Time) {
			change("rescheduled_date", formatNullDate(prior.RescheduledDate),
				rescheduledDate.Time.Format("2006-01-02"), rescheduledDate.Time)
		}
	}
	stringField("rescheduled_time", payload.RescheduledTime, prior.RescheduledTime)

	return fields, diffs, nil
}

func actorFromCtx(ctx context.Context) (sql.NullInt64, sql.NullString) {
	var id sql.NullInt64
	var name sql.NullString
	if userID, err := utils.GetUserIDFromCtx(ctx); err == nil {
		id = sql.NullInt64{Int64: int64(userID), Valid: true}
	}
	if userName := utils.GetUserNameFromCtx(ctx); userName != "" {
		name = sql.NullString{String: userName, Valid: true}
	}
	return id, name
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func coalesce(v null.String, fallback sql.NullString) string {
	if v.Valid {
		return v.String
	}
	return fallback.String
}

func formatNullDate(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format("2006-01-02")
}

func formatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

func toOrderResponse(o *entities.Order) *dto.OrderResponseDTO {
	return &dto.OrderResponseDTO{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		ServiceNumber: o.ServiceNumber.String,
		TicketNumber:  o.TicketNumber.String,

		CustomerName:  o.CustomerName.String,
		CustomerPhone: o.CustomerPhone.String,
		CustomerEmail: o.CustomerEmail.String,
		Address:       o.Address.String,
		BuildingName:  o.BuildingName.String,

		AppointmentDate:   formatNullDate(o.AppointmentDate),
		AppointmentTime:   o.AppointmentTime.String,
		EstimatedDuration: o.EstimatedDuration,

		ServiceType:   o.ServiceType.String,
		SalesModiType: o.SalesModiType.String,
		Priority:      o.Priority,

		Status:           o.Status,
		RescheduleReason: o.RescheduleReason.String,
		RescheduledDate:  formatNullDate(o.RescheduledDate),
		RescheduledTime:  o.RescheduledTime.String,

		DocketFileURL:  o.DocketFileURL.String,
		DocketFileName: o.DocketFileName.String,

		Notes:     o.Notes.String,
		CreatedAt: formatTimestamp(o.CreatedAt),
		UpdatedAt: formatTimestamp(o.UpdatedAt),
	}
}
