package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dispatch-system/internal/services"
	"dispatch-system/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportController struct {
	exportService services.ExportServiceInterface
	logger        *zap.Logger
}

func NewExportController(exportService services.ExportServiceInterface, logger *zap.Logger) *ExportController {
	return &ExportController{exportService: exportService, logger: logger}
}

// ExportSchedule streams the daily grid as xlsx. ?date=YYYY-MM-DD, default
// today.
func (c *ExportController) ExportSchedule(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	date := time.Now()
	if d := ctx.QueryParam("date"); d != "" {
		parsed, ok := utils.ParseAppointmentDate(d)
		if !ok {
			return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "unparseable date"))
		}
		date = parsed
	}

	f, fileName, err := c.exportService.BuildScheduleWorkbook(reqCtx, date)
	if err != nil {
		c.logger.Error("failed to build schedule export", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	ctx.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}

func (c *ExportController) ExportAssignmentHistory(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	f, fileName, err := c.exportService.BuildHistoryWorkbook(reqCtx, filter)
	if err != nil {
		c.logger.Error("failed to build history export", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	ctx.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
