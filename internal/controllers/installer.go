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

type InstallerController struct {
	installerService services.InstallerServiceInterface
	logger           *zap.Logger
}

func NewInstallerController(installerService services.InstallerServiceInterface, logger *zap.Logger) *InstallerController {
	return &InstallerController{installerService: installerService, logger: logger}
}

func (c *InstallerController) GetInstallers(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	res, err := c.installerService.GetInstallers(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res.List, "Successfully", http.StatusOK, res.TotalCount)
}

func (c *InstallerController) FindInstaller(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	res, err := c.installerService.FindInstaller(reqCtx, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Successfully", http.StatusOK)
}

func (c *InstallerController) CreateInstaller(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.CreateInstallerDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	res, err := c.installerService.CreateInstaller(reqCtx, payload)
	if err != nil {
		c.logger.Error("failed to create installer", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Successfully", http.StatusCreated)
}

func (c *InstallerController) BulkCreateInstallers(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.BulkCreateInstallersDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	ids, err := c.installerService.BulkCreateInstallers(reqCtx, payload)
	if err != nil {
		c.logger.Error("failed to bulk-create installers", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, map[string]interface{}{"ids": ids}, "Successfully", http.StatusCreated)
}

func (c *InstallerController) UpdateInstaller(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	var payload dto.UpdateInstallerDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	res, err := c.installerService.UpdateInstaller(reqCtx, id, payload)
	if err != nil {
		c.logger.Error("failed to update installer", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Successfully", http.StatusOK)
}
