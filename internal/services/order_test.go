package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dispatch-system/internal/dto"
	"dispatch-system/internal/entities"
	"dispatch-system/pkg/constants"
	"dispatch-system/pkg/contextkeys"
	apperrors "dispatch-system/pkg/errors"
	"dispatch-system/pkg/eventbus"
)

type orderServiceFixture struct {
	service     OrderServiceInterface
	orders      *fakeOrderRepo
	assignments *fakeAssignmentRepo
	installers  *fakeInstallerRepo
	history     *fakeOrderHistoryRepo
	storage     *fakeFileStorage
}

func newOrderServiceFixture() *orderServiceFixture {
	f := &orderServiceFixture{
		orders:      newFakeOrderRepo(),
		assignments: newFakeAssignmentRepo(),
		installers:  newFakeInstallerRepo(),
		history:     &fakeOrderHistoryRepo{},
		storage:     newFakeFileStorage(),
	}
	f.service = NewOrderService(
		f.orders, f.assignments, f.installers, f.history,
		fakeTxManager{}, f.storage, eventbus.New(zap.NewNop()), zap.NewNop(),
	)
	return f
}

func actorCtx(userID uint64, name, role string) context.Context {
	ctx := context.WithValue(context.Background(), contextkeys.UserIDKey, userID)
	ctx = context.WithValue(ctx, contextkeys.UserNameKey, name)
	return context.WithValue(ctx, contextkeys.UserRoleKey, role)
}

func TestOrderService_CreateOrder(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := actorCtx(7, "Dispatcher One", constants.RoleDispatcher)

	res, err := f.service.CreateOrder(ctx, dto.CreateOrderDTO{
		OrderNumber:     "ORD-1001",
		CustomerName:    "Jane Lim",
		AppointmentDate: "2026-09-01",
		AppointmentTime: "02:30 PM",
	})
	require.NoError(t, err)

	assert.Equal(t, constants.OrderStatusPending, res.Status)
	assert.Equal(t, constants.PriorityMedium, res.Priority)
	assert.Equal(t, constants.DefaultEstimatedDurationMinutes, res.EstimatedDuration)
	assert.Equal(t, "2026-09-01", res.AppointmentDate)
	assert.Equal(t, "2:30 PM", res.AppointmentTime, "appointment time should be normalized")

	require.Len(t, f.history.rows, 1)
	row := f.history.rows[0]
	assert.Equal(t, constants.HistoryActionCreated, row.Action)
	assert.Equal(t, res.ID, row.OrderID)
	assert.Equal(t, int64(7), row.UserID.Int64)
	assert.Equal(t, "Dispatcher One", row.UserName.String)
	assert.Contains(t, row.NewValue.String, "ORD-1001")
}

func TestOrderService_CreateOrder_BadDate(t *testing.T) {
	f := newOrderServiceFixture()

	_, err := f.service.CreateOrder(context.Background(), dto.CreateOrderDTO{
		OrderNumber:     "ORD-1002",
		AppointmentDate: "not-a-date",
	})
	require.Error(t, err)
	var invalid *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &invalid)
}

func TestOrderService_BulkCreateOrders(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := actorCtx(7, "Dispatcher One", constants.RoleDispatcher)

	ids, err := f.service.BulkCreateOrders(ctx, dto.BulkCreateOrdersDTO{
		Orders: []dto.CreateOrderDTO{
			{OrderNumber: "ORD-2001"},
			{OrderNumber: "ORD-2002", Priority: constants.PriorityHigh},
		},
	})
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Len(t, f.history.rows, 2, "one creation history row per order")

	second, err := f.service.FindOrder(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, constants.PriorityHigh, second.Priority)
}

func TestOrderService_UpdateOrder_WritesOneHistoryRowPerChange(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := actorCtx(7, "Dispatcher One", constants.RoleDispatcher)

	order := f.orders.add(entities.Order{
		OrderNumber:  "ORD-3001",
		CustomerName: sql.NullString{String: "Old Name", Valid: true},
		Status:       constants.OrderStatusPending,
		Priority:     constants.PriorityMedium,
	})

	res, err := f.service.UpdateOrder(ctx, order.ID, dto.UpdateOrderDTO{
		CustomerName: null.StringFrom("New Name"),
		Status:       null.StringFrom(constants.OrderStatusOnTheWay),
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", res.CustomerName)
	assert.Equal(t, constants.OrderStatusOnTheWay, res.Status)

	require.Len(t, f.history.rows, 2)
	byField := map[string]entities.OrderHistory{}
	for _, row := range f.history.rows {
		byField[row.FieldName.String] = row
	}
	assert.Equal(t, constants.HistoryActionUpdated, byField["customer_name"].Action)
	assert.Equal(t, "Old Name", byField["customer_name"].OldValue.String)
	assert.Equal(t, "New Name", byField["customer_name"].NewValue.String)
	assert.Equal(t, constants.HistoryActionStatusChanged, byField["status"].Action)
	assert.Equal(t, int64(7), byField["status"].UserID.Int64)
}

func TestOrderService_UpdateOrder_NoopWritesNothing(t *testing.T) {
	f := newOrderServiceFixture()
	order := f.orders.add(entities.Order{
		OrderNumber: "ORD-3002",
		Status:      constants.OrderStatusPending,
		Priority:    constants.PriorityMedium,
	})

	_, err := f.service.UpdateOrder(context.Background(), order.ID, dto.UpdateOrderDTO{
		Priority: null.StringFrom(constants.PriorityMedium),
	})
	require.NoError(t, err)
	assert.Empty(t, f.history.rows, "unchanged fields must not produce history rows")
}

func TestOrderService_UpdateOrder_RescheduleGuard(t *testing.T) {
	f := newOrderServiceFixture()

	t.Run("rejected without reason, date and time", func(t *testing.T) {
		order := f.orders.add(entities.Order{
			OrderNumber: "ORD-4001",
			Status:      constants.OrderStatusAssigned,
			Priority:    constants.PriorityMedium,
		})

		_, err := f.service.UpdateOrder(context.Background(), order.ID, dto.UpdateOrderDTO{
			Status: null.StringFrom(constants.OrderStatusRescheduled),
		})
		require.Error(t, err)
		var invalid *apperrors.InvalidInputError
		assert.ErrorAs(t, err, &invalid)
		assert.Empty(t, f.history.rows)
	})

	t.Run("accepted when the payload carries all three", func(t *testing.T) {
		order := f.orders.add(entities.Order{
			OrderNumber: "ORD-4002",
			Status:      constants.OrderStatusAssigned,
			Priority:    constants.PriorityMedium,
		})

		res, err := f.service.UpdateOrder(context.Background(), order.ID, dto.UpdateOrderDTO{
			Status:           null.StringFrom(constants.OrderStatusRescheduled),
			RescheduleReason: null.StringFrom(constants.RescheduleReasonCustomerIssue),
			RescheduledDate:  null.StringFrom("2026-09-15"),
			RescheduledTime:  null.StringFrom("14:00"),
		})
		require.NoError(t, err)
		assert.Equal(t, constants.OrderStatusRescheduled, res.Status)
		assert.Equal(t, "2026-09-15", res.RescheduledDate)
	})

	t.Run("accepted when the prior row already holds the details", func(t *testing.T) {
		order := f.orders.add(entities.Order{
			OrderNumber:      "ORD-4003",
			Status:           constants.OrderStatusAssigned,
			Priority:         constants.PriorityMedium,
			RescheduleReason: sql.NullString{String: constants.RescheduleReasonBuildingIssue, Valid: true},
			RescheduledDate:  sql.NullTime{Time: time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC), Valid: true},
			RescheduledTime:  sql.NullString{String: "09:00", Valid: true},
		})

		res, err := f.service.UpdateOrder(context.Background(), order.ID, dto.UpdateOrderDTO{
			Status: null.StringFrom(constants.OrderStatusRescheduled),
		})
		require.NoError(t, err)
		assert.Equal(t, constants.OrderStatusRescheduled, res.Status)
	})
}

func TestOrderService_DeleteOrder(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := actorCtx(7, "Dispatcher One", constants.RoleDispatcher)

	order := f.orders.add(entities.Order{
		OrderNumber: "ORD-5001",
		Status:      constants.OrderStatusAssigned,
		Priority:    constants.PriorityMedium,
	})
	installer := f.installers.add(entities.Installer{Name: "John Tan", IsActive: true})
	_, err := f.assignments.CreateAssignmentInTx(ctx, nil, &entities.Assignment{
		OrderID:            order.ID,
		InstallerID:        installer.ID,
		ScheduledDate:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		ScheduledStartTime: "10:00",
		ScheduledEndTime:   "11:00",
		Status:             constants.AssignmentStatusScheduled,
	})
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteOrder(ctx, order.ID))

	_, err = f.service.FindOrder(ctx, order.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.assignments.FindActiveByOrderID(ctx, order.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "active assignment must be soft-deleted with the order")

	// The audit trail outlives the order itself.
	require.Len(t, f.history.rows, 1)
	assert.Equal(t, constants.HistoryActionDeleted, f.history.rows[0].Action)
	assert.Equal(t, "ORD-5001", f.history.rows[0].OldValue.String)
}

func TestOrderService_ClearAll(t *testing.T) {
	f := newOrderServiceFixture()
	f.orders.add(entities.Order{OrderNumber: "ORD-6001", Status: constants.OrderStatusPending, Priority: constants.PriorityMedium})

	t.Run("forbidden for dispatcher", func(t *testing.T) {
		err := f.service.ClearAll(actorCtx(7, "Dispatcher One", constants.RoleDispatcher))
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("admin wipes orders and assignments", func(t *testing.T) {
		err := f.service.ClearAll(actorCtx(1, "Administrator", constants.RoleAdmin))
		require.NoError(t, err)

		list, err := f.service.GetOrders(context.Background(), listFilter())
		require.NoError(t, err)
		assert.Empty(t, list.List)
	})
}

func TestOrderService_UploadDocketFile(t *testing.T) {
	f := newOrderServiceFixture()
	ctx := actorCtx(7, "Dispatcher One", constants.RoleDispatcher)
	order := f.orders.add(entities.Order{
		OrderNumber: "ORD-7001",
		Status:      constants.OrderStatusOrderCompleted,
		Priority:    constants.PriorityMedium,
	})

	payload := dto.UploadDocketDTO{
		OrderID:  order.ID,
		FileName: "docket-7001.pdf",
		FileData: base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 fake")),
	}
	res, err := f.service.UploadDocketFile(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, "docket/docket-7001.pdf", res.DocketFileURL)
	assert.Equal(t, "docket-7001.pdf", res.DocketFileName)
	assert.Contains(t, f.storage.saved, "docket/docket-7001.pdf")

	require.Len(t, f.history.rows, 1)
	assert.Equal(t, "docket_file_url", f.history.rows[0].FieldName.String)

	t.Run("invalid base64 is rejected before any write", func(t *testing.T) {
		_, err := f.service.UploadDocketFile(ctx, dto.UploadDocketDTO{
			OrderID:  order.ID,
			FileName: "broken.pdf",
			FileData: "!!! not base64 !!!",
		})
		require.Error(t, err)
		var invalid *apperrors.InvalidInputError
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("orphaned file is removed when the order is missing", func(t *testing.T) {
		_, err := f.service.UploadDocketFile(ctx, dto.UploadDocketDTO{
			OrderID:  99999,
			FileName: "orphan.pdf",
			FileData: base64.StdEncoding.EncodeToString([]byte("data")),
		})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Contains(t, f.storage.deleted, "docket/orphan.pdf")
	})
}
