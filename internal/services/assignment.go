package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"dispatch-system/internal/dto"
	"dispatch-system/internal/entities"
	"dispatch-system/internal/events"
	"dispatch-system/internal/repositories"
	"dispatch-system/pkg/constants"
	apperrors "dispatch-system/pkg/errors"
	"dispatch-system/pkg/eventbus"
	"dispatch-system/pkg/types"
	"dispatch-system/pkg/utils"
)

type AssignmentServiceInterface interface {
	GetAssignments(ctx context.Context, filter types.Filter) (*dto.AssignmentListResponseDTO, error)
	FindAssignment(ctx context.Context, id uint64) (*dto.AssignmentResponseDTO, error)
	CreateAssignment(ctx context.Context, payload dto.CreateAssignmentDTO) (*dto.AssignmentResponseDTO, error)
	UpdateAssignment(ctx context.Context, id uint64, payload dto.UpdateAssignmentDTO) (*dto.AssignmentResponseDTO, error)
	DeleteAssignment(ctx context.Context, id uint64) error
	ReassignAssignment(ctx context.Context, id uint64, payload dto.ReassignAssignmentDTO) (*dto.AssignmentResponseDTO, error)
}

type AssignmentService struct {
	assignmentRepo repositories.AssignmentRepositoryInterface
	orderRepo      repositories.OrderRepositoryInterface
	installerRepo  repositories.InstallerRepositoryInterface
	historyRepo    repositories.AssignmentHistoryRepositoryInterface
	txManager      repositories.TxManagerInterface
	bus            *eventbus.Bus
	logger         *zap.Logger
}

func NewAssignmentService(
	assignmentRepo repositories.AssignmentRepositoryInterface,
	orderRepo repositories.OrderRepositoryInterface,
	installerRepo repositories.InstallerRepositoryInterface,
	historyRepo repositories.AssignmentHistoryRepositoryInterface,
	txManager repositories.TxManagerInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) AssignmentServiceInterface {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		orderRepo:      orderRepo,
		installerRepo:  installerRepo,
		historyRepo:    historyRepo,
		txManager:      txManager,
		bus:            bus,
		logger:         logger,
	}
}

func (s *AssignmentService) GetAssignments(ctx context.Context, filter types.Filter) (*dto.AssignmentListResponseDTO, error) {
	items, total, err := s.assignmentRepo.GetAssignments(ctx, filter)
	if err != nil {
		return nil, err
	}
	list := make([]dto.AssignmentResponseDTO, 0, len(items))
	for i := range items {
		list = append(list, *toAssignmentResponse(&items[i].Assignment, items[i].OrderNumber, items[i].InstallerName, items[i].CustomerName))
	}
	return &dto.AssignmentListResponseDTO{List: list, TotalCount: total}, nil
}

func (s *AssignmentService) FindAssignment(ctx context.Context, id uint64) (*dto.AssignmentResponseDTO, error) {
	assignment, err := s.assignmentRepo.FindAssignmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAssignmentResponse(assignment, "", "", ""), nil
}

// CreateAssignment binds an order to an installer slot. Inside one
// transaction: occupancy and single-active checks, insert, order status to
// "assigned", history row. The assigned notification goes out after commit.
func (s *AssignmentService) CreateAssignment(ctx context.Context, payload dto.CreateAssignmentDTO) (*dto.AssignmentResponseDTO, error) {
	scheduledDate, ok := utils.ParseAppointmentDate(payload.ScheduledDate)
	if !ok {
		return nil, apperrors.NewInvalidInputError("unparseable scheduled_date %q", payload.ScheduledDate)
	}

	actorID, actorName := actorFromCtx(ctx)

	var created *entities.Assignment
	var order *entities.Order
	var installer *entities.Installer
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		order, err = s.orderRepo.FindOrderForUpdateInTx(ctx, tx, payload.OrderID)
		if err != nil {
			return err
		}
		installer, err = s.installerRepo.FindInstallerByID(ctx, payload.InstallerID)
		if err != nil {
			return err
		}
		if !installer.IsActive {
			return apperrors.NewInvalidInputError("installer %q is not active", installer.Name)
		}

		if _, err := s.assignmentRepo.FindActiveByOrderIDInTx(ctx, tx, payload.OrderID); err == nil {
			return apperrors.NewConflictError("order %s already has an active assignment", order.OrderNumber)
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		occupied, err := s.assignmentRepo.IsSlotOccupiedInTx(ctx, tx, payload.InstallerID, scheduledDate, payload.StartTime, 0)
		if err != nil {
			return err
		}
		if occupied {
			return apperrors.NewConflictError("the requested slot is already occupied")
		}

		created = &entities.Assignment{
			OrderID:            payload.OrderID,
			InstallerID:        payload.InstallerID,
			ScheduledDate:      scheduledDate,
			ScheduledStartTime: payload.StartTime,
			ScheduledEndTime:   payload.EndTime,
			Status:             constants.AssignmentStatusScheduled,
			Notes:              nullString(payload.Notes),
		}
		id, err := s.assignmentRepo.CreateAssignmentInTx(ctx, tx, created)
		if err != nil {
			return err
		}
		created.ID = id

		if err := s.orderRepo.SetStatusInTx(ctx, tx, order.ID, constants.OrderStatusAssigned); err != nil {
			return err
		}
		return s.historyRepo.CreateInTx(ctx, tx,
			assignmentHistoryRow(created, order, installer, constants.HistoryActionCreated, actorID, actorName))
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.OrderAssignedEvent{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerName:  order.CustomerName.String,
		InstallerName: installer.Name,
		ScheduledDate: scheduledDate.Format("2006-01-02"),
		StartTime:     payload.StartTime,
		EndTime:       payload.EndTime,
	})

	return toAssignmentResponse(created, order.OrderNumber, installer.Name, order.CustomerName.String), nil
}

// UpdateAssignment changes status/notes/schedule in place. If the installer
// changed the history action becomes "reassigned", otherwise "updated".
func (s *AssignmentService) UpdateAssignment(ctx context.Context, id uint64, payload dto.UpdateAssignmentDTO) (*dto.AssignmentResponseDTO, error) {
	actorID, actorName := actorFromCtx(ctx)

	var updated *entities.Assignment
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		prior, err := s.assignmentRepo.FindAssignmentForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}

		fields := make(map[string]interface{})
		next := *prior

		if payload.InstallerID.Valid && uint64(payload.InstallerID.Int64) != prior.InstallerID {
			next.InstallerID = uint64(payload.InstallerID.Int64)
			fields["installer_id"] = next.InstallerID
		}
		if payload.ScheduledDate.Valid {
			parsed, ok := utils.ParseAppointmentDate(payload.ScheduledDate.String)
			if !ok {
				return apperrors.NewInvalidInputError("unparseable scheduled_date %q", payload.ScheduledDate.String)
			}
			if !parsed.Equal(prior.ScheduledDate) {
				next.ScheduledDate = parsed
				fields["scheduled_date"] = parsed
			}
		}
		if payload.StartTime.Valid && payload.StartTime.String != prior.ScheduledStartTime {
			next.ScheduledStartTime = payload.StartTime.String
			fields["scheduled_start_time"] = payload.StartTime.String
		}
		if payload.EndTime.Valid && payload.EndTime.String != prior.ScheduledEndTime {
			next.ScheduledEndTime = payload.EndTime.String
			fields["scheduled_end_time"] = payload.EndTime.String
		}
		if payload.Status.Valid && payload.Status.String != prior.Status {
			next.Status = payload.Status.String
			fields["status"] = payload.Status.String
		}
		if payload.Notes.Valid && payload.Notes.String != prior.Notes.String {
			next.Notes = nullString(payload.Notes.String)
			fields["notes"] = payload.Notes.String
		}
		if len(fields) == 0 {
			updated = prior
			return nil
		}

		slotChanged := next.InstallerID != prior.InstallerID ||
			!next.ScheduledDate.Equal(prior.ScheduledDate) ||
			next.ScheduledStartTime != prior.ScheduledStartTime
		if slotChanged {
			occupied, err := s.assignmentRepo.IsSlotOccupiedInTx(ctx, tx, next.InstallerID, next.ScheduledDate, next.ScheduledStartTime, prior.ID)
			if err != nil {
				return err
			}
			if occupied {
				return apperrors.NewConflictError("the requested slot is already occupied")
			}
		}

		if err := s.assignmentRepo.UpdateAssignmentFieldsInTx(ctx, tx, id, fields); err != nil {
			return err
		}

		order, err := s.orderRepo.FindOrderByID(ctx, next.OrderID)
		if err != nil {
			return err
		}
		installer, err := s.installerRepo.FindInstallerByID(ctx, next.InstallerID)
		if err != nil {
			return err
		}

		action := constants.HistoryActionUpdated
		if next.InstallerID != prior.InstallerID {
			action = constants.HistoryActionReassigned
		}
		updated = &next
		return s.historyRepo.CreateInTx(ctx, tx,
			assignmentHistoryRow(&next, order, installer, action, actorID, actorName))
	})
	if err != nil {
		return nil, err
	}
	return toAssignmentResponse(updated, "", "", ""), nil
}

// DeleteAssignment removes the binding and reverts the order to "pending" in
// the same transaction, so no caller can observe an unassigned order still
// marked assigned.
func (s *AssignmentService) DeleteAssignment(ctx context.Context, id uint64) error {
	actorID, actorName := actorFromCtx(ctx)

	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		assignment, err := s.assignmentRepo.FindAssignmentForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		order, err := s.orderRepo.FindOrderForUpdateInTx(ctx, tx, assignment.OrderID)
		if err != nil {
			return err
		}
		installer, err := s.installerRepo.FindInstallerByID(ctx, assignment.InstallerID)
		if err != nil {
			return err
		}

		if err := s.assignmentRepo.SoftDeleteAssignmentInTx(ctx, tx, id); err != nil {
			return err
		}
		if err := s.orderRepo.SetStatusInTx(ctx, tx, order.ID, constants.OrderStatusPending); err != nil {
			return err
		}
		return s.historyRepo.CreateInTx(ctx, tx,
			assignmentHistoryRow(assignment, order, installer, constants.HistoryActionDeleted, actorID, actorName))
	})
}

// ReassignAssignment moves the binding to a new installer/slot as one atomic
// operation. The target slot is checked before anything is touched, so a
// conflict leaves the original assignment intact. One "reassigned" history
// row records the move.
func (s *AssignmentService) ReassignAssignment(ctx context.Context, id uint64, payload dto.ReassignAssignmentDTO) (*dto.AssignmentResponseDTO, error) {
	scheduledDate, ok := utils.ParseAppointmentDate(payload.ScheduledDate)
	if !ok {
		return nil, apperrors.NewInvalidInputError("unparseable scheduled_date %q", payload.ScheduledDate)
	}

	actorID, actorName := actorFromCtx(ctx)

	var created *entities.Assignment
	var order *entities.Order
	var installer *entities.Installer
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		prior, err := s.assignmentRepo.FindAssignmentForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		order, err = s.orderRepo.FindOrderByID(ctx, prior.OrderID)
		if err != nil {
			return err
		}
		installer, err = s.installerRepo.FindInstallerByID(ctx, payload.NewInstallerID)
		if err != nil {
			return err
		}
		if !installer.IsActive {
			return apperrors.NewInvalidInputError("installer %q is not active", installer.Name)
		}

		occupied, err := s.assignmentRepo.IsSlotOccupiedInTx(ctx, tx, payload.NewInstallerID, scheduledDate, payload.StartTime, prior.ID)
		if err != nil {
			return err
		}
		if occupied {
			return apperrors.NewConflictError("the requested slot is already occupied")
		}

		if err := s.assignmentRepo.SoftDeleteAssignmentInTx(ctx, tx, prior.ID); err != nil {
			return err
		}
		created = &entities.Assignment{
			OrderID:            prior.OrderID,
			InstallerID:        payload.NewInstallerID,
			ScheduledDate:      scheduledDate,
			ScheduledStartTime: payload.StartTime,
			ScheduledEndTime:   payload.EndTime,
			Status:             constants.AssignmentStatusScheduled,
			Notes:              nullString(payload.Notes),
		}
		newID, err := s.assignmentRepo.CreateAssignmentInTx(ctx, tx, created)
		if err != nil {
			return err
		}
		created.ID = newID

		return s.historyRepo.CreateInTx(ctx, tx,
			assignmentHistoryRow(created, order, installer, constants.HistoryActionReassigned, actorID, actorName))
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.OrderAssignedEvent{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerName:  order.CustomerName.String,
		InstallerName: installer.Name,
		ScheduledDate: scheduledDate.Format("2006-01-02"),
		StartTime:     payload.StartTime,
		EndTime:       payload.EndTime,
	})

	return toAssignmentResponse(created, order.OrderNumber, installer.Name, order.CustomerName.String), nil
}

// assignmentHistoryRow denormalizes the order number and installer name at
// write time so history stays readable after renames and deletions.
func assignmentHistoryRow(
	a *entities.Assignment,
	order *entities.Order,
	installer *entities.Installer,
	action string,
	actorID sql.NullInt64,
	actorName sql.NullString,
) *entities.AssignmentHistory {
	return &entities.AssignmentHistory{
		AssignmentID:       sql.NullInt64{Int64: int64(a.ID), Valid: true},
		OrderID:            a.OrderID,
		OrderNumber:        order.OrderNumber,
		InstallerID:        installer.ID,
		InstallerName:      installer.Name,
		ScheduledDate:      a.ScheduledDate,
		ScheduledStartTime: a.ScheduledStartTime,
		ScheduledEndTime:   a.ScheduledEndTime,
		Action:             action,
		AssignedBy:         actorID,
		AssignedByName:     actorName,
		Notes:              a.Notes,
	}
}

func toAssignmentResponse(a *entities.Assignment, orderNumber, installerName, customerName string) *dto.AssignmentResponseDTO {
	return &dto.AssignmentResponseDTO{
		ID:          a.ID,
		OrderID:     a.OrderID,
		InstallerID: a.InstallerID,

		OrderNumber:   orderNumber,
		InstallerName: installerName,
		CustomerName:  customerName,

		ScheduledDate:      a.ScheduledDate.Format("2006-01-02"),
		ScheduledStartTime: a.ScheduledStartTime,
		ScheduledEndTime:   a.ScheduledEndTime,

		Status:    a.Status,
		Notes:     a.Notes.String,
		CreatedAt: formatTimestamp(a.CreatedAt),
		UpdatedAt: formatTimestamp(a.UpdatedAt),
	}
}
