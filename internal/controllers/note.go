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

type NoteController struct {
	noteService services.NoteServiceInterface
	logger      *zap.Logger
}

func NewNoteController(noteService services.NoteServiceInterface, logger *zap.Logger) *NoteController {
	return &NoteController{noteService: noteService, logger: logger}
}

func (c *NoteController) GetNotes(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	res, err := c.noteService.GetNotes(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res.List, "Successfully", http.StatusOK, res.TotalCount)
}

func (c *NoteController) FindNote(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	res, err := c.noteService.FindNote(reqCtx, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Successfully", http.StatusOK)
}

func (c *NoteController) CreateNote(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.CreateNoteDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	res, err := c.noteService.CreateNote(reqCtx, payload)
	if err != nil {
		c.logger.Error("failed to create note", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Successfully", http.StatusCreated)
}

func (c *NoteController) UpdateNote(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	var payload dto.UpdateNoteDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	res, err := c.noteService.UpdateNote(reqCtx, id, payload)
	if err != nil {
		c.logger.Error("failed to update note", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, res, "Successfully", http.StatusOK)
}

func (c *NoteController) DeleteNote(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	if err := c.noteService.DeleteNote(reqCtx, id); err != nil {
		c.logger.Error("failed to delete note", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Successfully", http.StatusOK)
}
