package routes

import (
	"github.com/labstack/echo/v4"

	"dispatch-system/internal/controllers"
)

func runHistoryRouter(secureGroup *echo.Group, ctrl *controllers.HistoryController) {
	secureGroup.GET("/assignment-history", ctrl.GetAssignmentHistory)
	secureGroup.GET("/orders/:id/assignment-history", ctrl.GetAssignmentHistoryByOrder)
}
