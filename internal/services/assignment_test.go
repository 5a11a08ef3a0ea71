package services

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dispatch-system/internal/dto"
	"dispatch-system/internal/entities"
	"dispatch-system/internal/events"
	"dispatch-system/pkg/constants"
	apperrors "dispatch-system/pkg/errors"
	"dispatch-system/pkg/eventbus"
)

type assignmentServiceFixture struct {
	service     AssignmentServiceInterface
	assignments *fakeAssignmentRepo
	orders      *fakeOrderRepo
	installers  *fakeInstallerRepo
	history     *fakeAssignmentHistoryRepo
	bus         *eventbus.Bus
}

func newAssignmentServiceFixture() *assignmentServiceFixture {
	f := &assignmentServiceFixture{
		assignments: newFakeAssignmentRepo(),
		orders:      newFakeOrderRepo(),
		installers:  newFakeInstallerRepo(),
		history:     &fakeAssignmentHistoryRepo{},
		bus:         eventbus.New(zap.NewNop()),
	}
	f.service = NewAssignmentService(
		f.assignments, f.orders, f.installers, f.history,
		fakeTxManager{}, f.bus, zap.NewNop(),
	)
	return f
}

func (f *assignmentServiceFixture) seedOrder(number string) *entities.Order {
	return f.orders.add(entities.Order{
		OrderNumber: number,
		Status:      constants.OrderStatusPending,
		Priority:    constants.PriorityMedium,
	})
}

func (f *assignmentServiceFixture) seedInstaller(name string, active bool) *entities.Installer {
	return f.installers.add(entities.Installer{Name: name, IsActive: active})
}

func TestAssignmentService_CreateAssignment(t *testing.T) {
	f := newAssignmentServiceFixture()
	ctx := actorCtx(7, "Dispatcher One", constants.RoleDispatcher)
	order := f.seedOrder("ORD-1001")
	installer := f.seedInstaller("John Tan", true)

	assigned := make(chan events.OrderAssignedEvent, 1)
	f.bus.Subscribe(events.OrderAssignedEvent{}.Name(), func(_ context.Context, e eventbus.Event) error {
		assigned <- e.(events.OrderAssignedEvent)
		return nil
	})

	res, err := f.service.CreateAssignment(ctx, dto.CreateAssignmentDTO{
		OrderID:       order.ID,
		InstallerID:   installer.ID,
		ScheduledDate: "2026-09-01",
		StartTime:     "10:00",
		EndTime:       "11:00",
	})
	require.NoError(t, err)
	assert.Equal(t, constants.AssignmentStatusScheduled, res.Status)
	assert.Equal(t, "ORD-1001", res.OrderNumber)
	assert.Equal(t, "John Tan", res.InstallerName)

	updatedOrder, err := f.orders.FindOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.OrderStatusAssigned, updatedOrder.Status, "assigning must flip the order status in the same transaction")

	require.Len(t, f.history.rows, 1)
	row := f.history.rows[0]
	assert.Equal(t, constants.HistoryActionCreated, row.Action)
	assert.Equal(t, "ORD-1001", row.OrderNumber)
	assert.Equal(t, "John Tan", row.InstallerName)
	assert.Equal(t, int64(7), row.AssignedBy.Int64)

	select {
	case e := <-assigned:
		assert.Equal(t, order.ID, e.OrderID)
		assert.Equal(t, "2026-09-01", e.ScheduledDate)
	case <-time.After(time.Second):
		t.Fatal("expected an assigned notification after commit")
	}
}

func TestAssignmentService_CreateAssignment_SlotOccupied(t *testing.T) {
	f := newAssignmentServiceFixture()
	ctx := actorCtx(7, "Dispatcher One", constants.RoleDispatcher)
	first := f.seedOrder("ORD-2001")
	second := f.seedOrder("ORD-2002")
	installer := f.seedInstaller("John Tan", true)

	_, err := f.service.CreateAssignment(ctx, dto.CreateAssignmentDTO{
		OrderID:       first.ID,
		InstallerID:   installer.ID,
		ScheduledDate: "2026-09-01",
		StartTime:     "10:00",
		EndTime:       "11:00",
	})
	require.NoError(t, err)

	_, err = f.service.CreateAssignment(ctx, dto.CreateAssignmentDTO{
		OrderID:       second.ID,
		InstallerID:   installer.ID,
		ScheduledDate: "2026-09-01",
		StartTime:     "10:00",
		EndTime:       "12:00",
	})
	require.Error(t, err)
	var conflict *apperrors.ConflictError
	assert.ErrorAs(t, err, &conflict)

	unchanged, err := f.orders.FindOrderByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.OrderStatusPending, unchanged.Status, "a rejected assignment must leave the order untouched")
}

func TestAssignmentService_CreateAssignment_OrderAlreadyAssigned(t *testing.T) {
	f := newAssignmentServiceFixture()
	ctx := actorCtx(7, "Dispatcher One", constants.RoleDispatcher)
	order := f.seedOrder("ORD-3001")
	john := f.seedInstaller("John Tan", true)
	ahmad := f.seedInstaller("Ahmad Rahim", true)

	_, err := f.service.CreateAssignment(ctx, dto.CreateAssignmentDTO{
		OrderID:       order.ID,
		InstallerID:   john.ID,
		ScheduledDate: "2026-09-01",
		StartTime:     "10:00",
		EndTime:       "11:00",
	})
	require.NoError(t, err)

	_, err = f.service.CreateAssignment(ctx, dto.CreateAssignmentDTO{
		OrderID:       order.ID,
		InstallerID:   ahmad.ID,
		ScheduledDate: "2026-09-02",
		StartTime:     "09:00",
		EndTime:       "10:00",
	})
	require.Error(t, err)
	var conflict *apperrors.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestAssignmentService_CreateAssignment_InactiveInstaller(t *testing.T) {
	f := newAssignmentServiceFixture()
	order := f.seedOrder("ORD-4001")
	installer := f.seedInstaller("Retired Tech", false)

	_, err := f.service.CreateAssignment(context.Background(), dto.CreateAssignmentDTO{
		OrderID:       order.ID,
		InstallerID:   installer.ID,
		ScheduledDate: "2026-09-01",
		StartTime:     "10:00",
		EndTime:       "11:00",
	})
	require.Error(t, err)
	var invalid *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &invalid)
	assert.Empty(t, f.history.rows)
}

func TestAssignmentService_UpdateAssignment(t *testing.T) {
	f := newAssignmentServiceFixture()
	ctx := actorCtx(7, "Dispatcher One", constants.RoleDispatcher)
	order := f.seedOrder("ORD-5001")
	john := f.seedInstaller("John Tan", true)
	ahmad := f.seedInstaller("Ahmad Rahim", true)

	created, err := f.service.CreateAssignment(ctx, dto.CreateAssignmentDTO{
		OrderID:       order.ID,
		InstallerID:   john.ID,
		ScheduledDate: "2026-09-01",
		StartTime:     "10:00",
		EndTime:       "11:00",
	})
	require.NoError(t, err)

	t.Run("moving the start time within own slot is allowed", func(t *testing.T) {
		res, err := f.service.UpdateAssignment(ctx, created.ID, dto.UpdateAssignmentDTO{
			StartTime: null.StringFrom("10:30"),
			EndTime:   null.StringFrom("11:30"),
		})
		require.NoError(t, err)
		assert.Equal(t, "10:30", res.ScheduledStartTime)

		last := f.history.rows[len(f.history.rows)-1]
		assert.Equal(t, constants.HistoryActionUpdated, last.Action)
	})

	t.Run("changing the installer records a reassignment", func(t *testing.T) {
		res, err := f.service.UpdateAssignment(ctx, created.ID, dto.UpdateAssignmentDTO{
			InstallerID: null.Int64From(int64(ahmad.ID)),
		})
		require.NoError(t, err)
		assert.Equal(t, ahmad.ID, res.InstallerID)

		last := f.history.rows[len(f.history.rows)-1]
		assert.Equal(t, constants.HistoryActionReassigned, last.Action)
		assert.Equal(t, "Ahmad Rahim", last.InstallerName)
	})

	t.Run("moving onto an occupied slot is rejected", func(t *testing.T) {
		other := f.seedOrder("ORD-5002")
		_, err := f.service.CreateAssignment(ctx, dto.CreateAssignmentDTO{
			OrderID:       other.ID,
			InstallerID:   john.ID,
			ScheduledDate: "2026-09-01",
			StartTime:     "14:00",
			EndTime:       "15:00",
		})
		require.NoError(t, err)

		_, err = f.service.UpdateAssignment(ctx, created.ID, dto.UpdateAssignmentDTO{
			InstallerID: null.Int64From(int64(john.ID)),
			StartTime:   null.StringFrom("14:00"),
		})
		require.Error(t, err)
		var conflict *apperrors.ConflictError
		assert.ErrorAs(t, err, &conflict)
	})
}

func TestAssignmentService_DeleteAssignment_RevertsOrderToPending(t *testing.T) {
	f := newAssignmentServiceFixture()
	ctx := actorCtx(7, "Dispatcher One", constants.RoleDispatcher)
	order := f.seedOrder("ORD-6001")
	installer := f.seedInstaller("John Tan", true)

	created, err := f.service.CreateAssignment(ctx, dto.CreateAssignmentDTO{
		OrderID:       order.ID,
		InstallerID:   installer.ID,
		ScheduledDate: "2026-09-01",
		StartTime:     "10:00",
		EndTime:       "11:00",
	})
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteAssignment(ctx, created.ID))

	_, err = f.assignments.FindActiveByOrderID(ctx, order.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	reverted, err := f.orders.FindOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.OrderStatusPending, reverted.Status)

	last := f.history.rows[len(f.history.rows)-1]
	assert.Equal(t, constants.HistoryActionDeleted, last.Action)
}

func TestAssignmentService_ReassignAssignment(t *testing.T) {
	f := newAssignmentServiceFixture()
	ctx := actorCtx(7, "Dispatcher One", constants.RoleDispatcher)
	order := f.seedOrder("ORD-7001")
	john := f.seedInstaller("John Tan", true)
	ahmad := f.seedInstaller("Ahmad Rahim", true)

	created, err := f.service.CreateAssignment(ctx, dto.CreateAssignmentDTO{
		OrderID:       order.ID,
		InstallerID:   john.ID,
		ScheduledDate: "2026-09-01",
		StartTime:     "10:00",
		EndTime:       "11:00",
	})
	require.NoError(t, err)

	t.Run("conflict leaves the original assignment intact", func(t *testing.T) {
		blocker := f.seedOrder("ORD-7002")
		_, err := f.service.CreateAssignment(ctx, dto.CreateAssignmentDTO{
			OrderID:       blocker.ID,
			InstallerID:   ahmad.ID,
			ScheduledDate: "2026-09-01",
			StartTime:     "10:00",
			EndTime:       "11:00",
		})
		require.NoError(t, err)

		_, err = f.service.ReassignAssignment(ctx, created.ID, dto.ReassignAssignmentDTO{
			NewInstallerID: ahmad.ID,
			ScheduledDate:  "2026-09-01",
			StartTime:      "10:00",
			EndTime:        "11:00",
		})
		require.Error(t, err)
		var conflict *apperrors.ConflictError
		assert.ErrorAs(t, err, &conflict)

		still, err := f.assignments.FindActiveByOrderID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, still.ID)
	})

	t.Run("successful move soft-deletes and recreates atomically", func(t *testing.T) {
		historyBefore := len(f.history.rows)

		res, err := f.service.ReassignAssignment(ctx, created.ID, dto.ReassignAssignmentDTO{
			NewInstallerID: ahmad.ID,
			ScheduledDate:  "2026-09-02",
			StartTime:      "09:00",
			EndTime:        "10:00",
		})
		require.NoError(t, err)
		assert.NotEqual(t, created.ID, res.ID)
		assert.Equal(t, ahmad.ID, res.InstallerID)

		_, err = f.assignments.FindAssignmentByID(ctx, created.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound, "the prior assignment must be gone")

		active, err := f.assignments.FindActiveByOrderID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, res.ID, active.ID)

		require.Equal(t, historyBefore+1, len(f.history.rows), "one reassigned row records the whole move")
		last := f.history.rows[len(f.history.rows)-1]
		assert.Equal(t, constants.HistoryActionReassigned, last.Action)
		assert.Equal(t, "Ahmad Rahim", last.InstallerName)
	})
}
