package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"dispatch-system/internal/repositories"
	"dispatch-system/pkg/constants"
	"dispatch-system/pkg/types"
	"dispatch-system/pkg/utils"
)

type ExportServiceInterface interface {
	BuildScheduleWorkbook(ctx context.Context, date time.Time) (*excelize.File, string, error)
	BuildHistoryWorkbook(ctx context.Context, filter types.Filter) (*excelize.File, string, error)
}

type ExportService struct {
	assignmentRepo repositories.AssignmentRepositoryInterface
	installerRepo  repositories.InstallerRepositoryInterface
	historyRepo    repositories.AssignmentHistoryRepositoryInterface
	logger         *zap.Logger
}

func NewExportService(
	assignmentRepo repositories.AssignmentRepositoryInterface,
	installerRepo repositories.InstallerRepositoryInterface,
	historyRepo repositories.AssignmentHistoryRepositoryInterface,
	logger *zap.Logger,
) ExportServiceInterface {
	return &ExportService{
		assignmentRepo: assignmentRepo,
		installerRepo:  installerRepo,
		historyRepo:    historyRepo,
		logger:         logger,
	}
}

// BuildScheduleWorkbook renders the daily grid: installers down, 30-minute
// slots across, occupied cells showing the order number.
func (s *ExportService) BuildScheduleWorkbook(ctx context.Context, date time.Time) (*excelize.File, string, error) {
	installers, _, err := s.installerRepo.GetInstallers(ctx, types.Filter{
		Filter: map[string]interface{}{"is_active": true},
		Limit:  100000,
	})
	if err != nil {
		return nil, "", err
	}

	dateStr := date.Format("2006-01-02")
	assignments, _, err := s.assignmentRepo.GetAssignments(ctx, types.Filter{
		Filter: map[string]interface{}{"scheduled_date": dateStr},
		Limit:  100000,
	})
	if err != nil {
		return nil, "", err
	}

	slots := utils.GenerateTimeSlots(constants.ScheduleStartHour, constants.ScheduleEndHour)
	slotIndex := make(map[string]int, len(slots))
	for i, slot := range slots {
		slotIndex[slot] = i
	}

	// (installerID, slot) -> order number
	type cellKey struct {
		installerID uint64
		slot        int
	}
	grid := make(map[cellKey]string, len(assignments))
	for i := range assignments {
		idx, ok := slotIndex[assignments[i].ScheduledStartTime]
		if !ok {
			continue
		}
		grid[cellKey{assignments[i].InstallerID, idx}] = assignments[i].OrderNumber
	}

	f := excelize.NewFile()
	sheet := "Schedule " + dateStr
	f.SetSheetName("Sheet1", sheet)

	header := make([]interface{}, 0, len(slots)+1)
	header = append(header, "Installer")
	for _, slot := range slots {
		header = append(header, utils.FormatTimeSlot(slot))
	}
	f.SetSheetRow(sheet, "A1", &header)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	lastCol, _ := excelize.CoordinatesToCellName(len(header), 1)
	f.SetCellStyle(sheet, "A1", lastCol, style)

	for r, installer := range installers {
		row := make([]interface{}, 0, len(slots)+1)
		row = append(row, installer.Name)
		for c := range slots {
			row = append(row, grid[cellKey{installer.ID, c}])
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "A", "A", 25)

	fileName := fmt.Sprintf("schedule_%s.xlsx", dateStr)
	return f, fileName, nil
}

var historyExportHeaders = []string{
	"ID", "Order Number", "Installer", "Date", "Start", "End",
	"Action", "Performed By", "Notes", "Recorded At",
}

// BuildHistoryWorkbook exports the assignment audit trail with the same
// filters the list endpoint accepts.
func (s *ExportService) BuildHistoryWorkbook(ctx context.Context, filter types.Filter) (*excelize.File, string, error) {
	filter.Limit = 100000
	filter.Offset = 0
	records, _, err := s.historyRepo.GetHistory(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheet := "Assignment History"
	f.SetSheetName("Sheet1", sheet)
	headers := make([]interface{}, len(historyExportHeaders))
	for i, h := range historyExportHeaders {
		headers[i] = h
	}
	f.SetSheetRow(sheet, "A1", &headers)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "J1", style)

	for i := range records {
		h := &records[i]
		row := []interface{}{
			h.ID, h.OrderNumber, h.InstallerName,
			h.ScheduledDate.Format("2006-01-02"),
			utils.FormatTimeSlot(h.ScheduledStartTime),
			utils.FormatTimeSlot(h.ScheduledEndTime),
			h.Action, h.AssignedByName.String, h.Notes.String,
			h.CreatedAt.Format("2006-01-02 15:04"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "B", "C", 22)
	f.SetColWidth(sheet, "I", "I", 40)

	fileName := fmt.Sprintf("assignment_history_%s.xlsx", time.Now().Format("2006-01-02"))
	return f, fileName, nil
}
