package routes

import (
	"github.com/labstack/echo/v4"

	"dispatch-system/internal/controllers"
)

func runInstallerRouter(secureGroup *echo.Group, ctrl *controllers.InstallerController) {
	secureGroup.GET("/installers", ctrl.GetInstallers)
	secureGroup.POST("/installers", ctrl.CreateInstaller)
	secureGroup.POST("/installers/bulk", ctrl.BulkCreateInstallers)
	secureGroup.GET("/installers/:id", ctrl.FindInstaller)
	secureGroup.PUT("/installers/:id", ctrl.UpdateInstaller)
}
