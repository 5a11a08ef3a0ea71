package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dispatch-system/internal/entities"
	"dispatch-system/pkg/constants"
	"dispatch-system/pkg/utils"
)

func TestExportService_BuildScheduleWorkbook(t *testing.T) {
	assignments := newFakeAssignmentRepo()
	installers := newFakeInstallerRepo()
	history := &fakeAssignmentHistoryRepo{}
	svc := NewExportService(assignments, installers, history, zap.NewNop())

	john := installers.add(entities.Installer{Name: "John Tan", IsActive: true})
	installers.add(entities.Installer{Name: "Ahmad Rahim", IsActive: true})

	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	assignments.orderNumbers[42] = "ORD-1001"
	_, err := assignments.CreateAssignmentInTx(context.Background(), nil, &entities.Assignment{
		OrderID:            42,
		InstallerID:        john.ID,
		ScheduledDate:      date,
		ScheduledStartTime: "10:00",
		ScheduledEndTime:   "11:00",
		Status:             constants.AssignmentStatusScheduled,
	})
	require.NoError(t, err)

	f, fileName, err := svc.BuildScheduleWorkbook(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, "schedule_2026-09-01.xlsx", fileName)

	sheet := "Schedule 2026-09-01"
	corner, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Installer", corner)

	firstSlot, err := f.GetCellValue(sheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, utils.FormatTimeSlot("08:00"), firstSlot)

	name, err := f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "John Tan", name)

	// 10:00 is the fifth slot of an 08:00 grid, so column F.
	occupied, err := f.GetCellValue(sheet, "F2")
	require.NoError(t, err)
	assert.Equal(t, "ORD-1001", occupied)

	empty, err := f.GetCellValue(sheet, "F3")
	require.NoError(t, err)
	assert.Empty(t, empty, "the second installer has no booking at 10:00")
}

func TestExportService_BuildHistoryWorkbook(t *testing.T) {
	assignments := newFakeAssignmentRepo()
	installers := newFakeInstallerRepo()
	history := &fakeAssignmentHistoryRepo{
		rows: []entities.AssignmentHistory{
			{
				ID:                 1,
				OrderID:            42,
				OrderNumber:        "ORD-1001",
				InstallerID:        1,
				InstallerName:      "John Tan",
				ScheduledDate:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
				ScheduledStartTime: "10:00",
				ScheduledEndTime:   "11:00",
				Action:             constants.HistoryActionCreated,
				AssignedByName:     sql.NullString{String: "Dispatcher One", Valid: true},
				CreatedAt:          time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC),
			},
		},
	}
	svc := NewExportService(assignments, installers, history, zap.NewNop())

	f, fileName, err := svc.BuildHistoryWorkbook(context.Background(), listFilter())
	require.NoError(t, err)
	assert.Contains(t, fileName, "assignment_history_")

	sheet := "Assignment History"
	orderNumber, err := f.GetCellValue(sheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "ORD-1001", orderNumber)

	action, err := f.GetCellValue(sheet, "G2")
	require.NoError(t, err)
	assert.Equal(t, constants.HistoryActionCreated, action)

	performedBy, err := f.GetCellValue(sheet, "H2")
	require.NoError(t, err)
	assert.Equal(t, "Dispatcher One", performedBy)
}
