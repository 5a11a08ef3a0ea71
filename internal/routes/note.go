package routes

import (
	"github.com/labstack/echo/v4"

	"dispatch-system/internal/controllers"
)

func runNoteRouter(secureGroup *echo.Group, ctrl *controllers.NoteController) {
	secureGroup.GET("/notes", ctrl.GetNotes)
	secureGroup.POST("/notes", ctrl.CreateNote)
	secureGroup.GET("/notes/:id", ctrl.FindNote)
	secureGroup.PUT("/notes/:id", ctrl.UpdateNote)
	secureGroup.DELETE("/notes/:id", ctrl.DeleteNote)
}
