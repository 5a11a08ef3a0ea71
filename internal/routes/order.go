package routes

import (
	"github.com/labstack/echo/v4"

	"dispatch-system/internal/controllers"
	"dispatch-system/internal/services"
	"dispatch-system/pkg/constants"
	"dispatch-system/pkg/middleware"
	"dispatch-system/pkg/utils"
)

func runOrderRouter(
	secureGroup *echo.Group,
	ctrl *controllers.OrderController,
	historyCtrl *controllers.HistoryController,
	authMW *middleware.AuthMiddleware,
	permissionService services.AuthPermissionServiceInterface,
) {
	requirePermission := func(permission string) echo.MiddlewareFunc {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				if err := permissionService.Check(c.Request().Context(), permission); err != nil {
					return utils.ErrorResponse(c, err)
				}
				return next(c)
			}
		}
	}

	secureGroup.GET("/orders", ctrl.GetOrders)
	secureGroup.POST("/orders", ctrl.CreateOrder)
	secureGroup.POST("/orders/bulk", ctrl.BulkCreateOrders)
	secureGroup.GET("/orders/:id", ctrl.FindOrder)
	secureGroup.PUT("/orders/:id", ctrl.UpdateOrder)
	secureGroup.DELETE("/orders/:id", ctrl.DeleteOrder)
	secureGroup.GET("/orders/:id/history", historyCtrl.GetOrderHistory)
	secureGroup.POST("/orders/upload-docket", ctrl.UploadDocketFile)

	// Destructive, admin only.
	secureGroup.DELETE("/orders", ctrl.ClearAll,
		authMW.RequireAdmin, requirePermission(constants.PermissionOrdersClearAll))
}
