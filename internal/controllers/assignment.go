package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dispatch-system/internal/dto"
	"dispatch-system/internal/services"
	"dispatch-system/pkg/utils"
)

type AssignmentController struct {
	assignmentService services.AssignmentServiceInterface
	logger            *zap.Logger
}

func NewAssignmentController(assignmentService services.AssignmentServiceInterface, logger *zap.Logger) *AssignmentController {
	return &AssignmentController{assignmentService: assignmentService, logger: logger}
}

func (c *AssignmentController) GetAssignments(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	res, err := c.assignmentService.GetAssignments(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res.List, "Successfully", http.StatusOK, res.TotalCount)
}

func (c *AssignmentController) FindAssignment(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	res, err := c.assignmentService.FindAssignment(reqCtx, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Successfully", http.StatusOK)
}

func (c *AssignmentController) CreateAssignment(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.CreateAssignmentDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	res, err := c.assignmentService.CreateAssignment(reqCtx, payload)
	if err != nil {
		c.logger.Error("failed to create assignment",
			zap.Uint64("order_id", payload.OrderID),
			zap.Uint64("installer_id", payload.InstallerID),
			zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Successfully", http.StatusCreated)
}

func (c *AssignmentController) UpdateAssignment(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	var payload dto.UpdateAssignmentDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	res, err := c.assignmentService.UpdateAssignment(reqCtx, id, payload)
	if err != nil {
		c.logger.Error("failed to update assignment", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Successfully", http.StatusOK)
}

func (c *AssignmentController) DeleteAssignment(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	if err := c.assignmentService.DeleteAssignment(reqCtx, id); err != nil {
		c.logger.Error("failed to delete assignment", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Successfully", http.StatusOK)
}

func (c *AssignmentController) ReassignAssignment(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	var payload dto.ReassignAssignmentDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	res, err := c.assignmentService.ReassignAssignment(reqCtx, id, payload)
	if err != nil {
		c.logger.Error("failed to reassign assignment", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Successfully", http.StatusOK)
}
