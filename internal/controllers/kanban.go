package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"approval-gateway/internal/services"
	"approval-gateway/pkg/constants"
	"approval-gateway/pkg/utils"
)

type KanbanController struct {
	kanbanService services.KanbanServiceInterface
	orderCtrl     *OrderController
	logger        *zap.Logger
}

func NewKanbanController(kanbanService services.KanbanServiceInterface, orderCtrl *OrderController, logger *zap.Logger) *KanbanController {
	return &KanbanController{kanbanService: kanbanService, orderCtrl: orderCtrl, logger: logger}
}

// GetBoard отдаёт канбан-доску. Страница каждой колонки передаётся
// отдельным параметром page[<status>]=N.
func (c *KanbanController) GetBoard(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	filter, err := c.orderCtrl.buildFilter(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	columnPages := make(map[string]int, len(constants.UIStatuses))
	for _, status := range constants.UIStatuses {
		if pageStr := ctx.QueryParam("page[" + status + "]"); pageStr != "" {
			if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
				columnPages[status] = p
			}
		}
	}

	board, err := c.kanbanService.Board(reqCtx, filter, columnPages)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, board, "Канбан-доска успешно получена", http.StatusOK)
}
