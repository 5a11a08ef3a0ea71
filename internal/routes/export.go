package routes

import (
	"github.com/labstack/echo/v4"

	"dispatch-system/internal/controllers"
)

func runExportRouter(secureGroup *echo.Group, ctrl *controllers.ExportController) {
	secureGroup.GET("/exports/schedule", ctrl.ExportSchedule)
	secureGroup.GET("/exports/assignment-history", ctrl.ExportAssignmentHistory)
}
