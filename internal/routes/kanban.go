package routes

import (
	"github.com/labstack/echo/v4"

	"approval-gateway/internal/controllers"
)

func runKanbanRouter(secureGroup *echo.Group, kanbanCtrl *controllers.KanbanController) {
	{
		secureGroup.GET("/kanban/board", kanbanCtrl.GetBoard)
	}
}
