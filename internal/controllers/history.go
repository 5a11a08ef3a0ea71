package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dispatch-system/internal/services"
	"dispatch-system/pkg/utils"
)

type HistoryController struct {
	orderHistoryService      services.OrderHistoryServiceInterface
	assignmentHistoryService services.AssignmentHistoryServiceInterface
	logger                   *zap.Logger
}

func NewHistoryController(
	orderHistoryService services.OrderHistoryServiceInterface,
	assignmentHistoryService services.AssignmentHistoryServiceInterface,
	logger *zap.Logger,
) *HistoryController {
	return &HistoryController{
		orderHistoryService:      orderHistoryService,
		assignmentHistoryService: assignmentHistoryService,
		logger:                   logger,
	}
}

// GetOrderHistory returns the audit trail for one order, newest first.
func (c *HistoryController) GetOrderHistory(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	orderID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	res, err := c.orderHistoryService.GetOrderHistory(reqCtx, orderID)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Successfully", http.StatusOK)
}

func (c *HistoryController) GetAssignmentHistory(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	res, err := c.assignmentHistoryService.GetHistory(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res.List, "Successfully", http.StatusOK, res.TotalCount)
}

func (c *HistoryController) GetAssignmentHistoryByOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	orderID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	res, err := c.assignmentHistoryService.GetHistoryByOrder(reqCtx, orderID)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Successfully", http.StatusOK)
}
