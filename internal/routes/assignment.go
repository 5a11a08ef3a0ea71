package routes

import (
	"github.com/labstack/echo/v4"

	"dispatch-system/internal/controllers"
)

func runAssignmentRouter(secureGroup *echo.Group, ctrl *controllers.AssignmentController) {
	secureGroup.GET("/assignments", ctrl.GetAssignments)
	secureGroup.POST("/assignments", ctrl.CreateAssignment)
	secureGroup.GET("/assignments/:id", ctrl.FindAssignment)
	secureGroup.PUT("/assignments/:id", ctrl.UpdateAssignment)
	secureGroup.DELETE("/assignments/:id", ctrl.DeleteAssignment)
	secureGroup.POST("/assignments/:id/reassign", ctrl.ReassignAssignment)
}
