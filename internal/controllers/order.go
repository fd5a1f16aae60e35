package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"approval-gateway/internal/dto"
	"approval-gateway/internal/entities"
	"approval-gateway/internal/services"
	"approval-gateway/pkg/constants"
	apperrors "approval-gateway/pkg/errors"
	"approval-gateway/pkg/types"
	"approval-gateway/pkg/utils"
)

type OrderController struct {
	orderService services.OrderServiceInterface
	logger       *zap.Logger
}

func NewOrderController(orderService services.OrderServiceInterface, logger *zap.Logger) *OrderController {
	return &OrderController{orderService: orderService, logger: logger}
}

// buildFilter собирает фильтр из query-параметров и дополняет его
// данными аутентифицированного пользователя из контекста.
func (c *OrderController) buildFilter(ctx echo.Context) (types.OrderFilter, error) {
	filter := utils.ParseOrderFilterFromQuery(ctx.Request().URL.Query())

	if filter.Status != "" && !constants.IsUIStatus(filter.Status) {
		return filter, apperrors.NewHttpError(
			http.StatusBadRequest,
			"Неизвестный статус фильтра",
			apperrors.ErrBadRequest,
			map[string]interface{}{"status": filter.Status},
		)
	}

	reqCtx := ctx.Request().Context()

	email, err := utils.GetUserEmailFromCtx(reqCtx)
	if err != nil {
		return filter, err
	}
	filter.UserEmail = email

	tenant, err := utils.GetTenantFromCtx(reqCtx)
	if err != nil {
		return filter, err
	}
	filter.TenantID = tenant

	return filter, nil
}

func (c *OrderController) GetOrders(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	filter, err := c.buildFilter(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	orders, pagination, err := c.orderService.GetOrders(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, orders, "Список заказов успешно получен", http.StatusOK, pagination)
}

func (c *OrderController) FindOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	filter, err := c.buildFilter(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	matrixID := ctx.Param("matrixId")
	order, err := c.orderService.FindOrder(reqCtx, filter, matrixID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, order, "Заказ успешно найден", http.StatusOK)
}

// GetOrderMatrix отдаёт все экземпляры номера документа по филиалам
// для кросс-филиальной сводки.
func (c *OrderController) GetOrderMatrix(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	filter, err := c.buildFilter(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	rows, err := c.orderService.OrdersMatrix(reqCtx, filter, ctx.Param("number"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, rows, "Матрица заказа успешно получена", http.StatusOK)
}

func (c *OrderController) ApproveOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.ApproveOrderDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Неверное тело запроса", err, nil), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.orderService.Approve(reqCtx, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, result, "Заказ успешно согласован", http.StatusOK)
}

func (c *OrderController) RejectOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.RejectOrderDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Неверное тело запроса", err, nil), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.orderService.Reject(reqCtx, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, result, "Заказ успешно отклонён", http.StatusOK)
}

var exportHeaders = []string{
	"Pedido", "Filial", "Solicitante", "E-mail", "Valor", "Status", "Emissão", "Observações",
}

func exportRow(order entities.Order) []interface{} {
	observations := ""
	if order.Observations != nil {
		observations = *order.Observations
	}
	emission := ""
	if !order.Date.IsZero() {
		emission = order.Date.Format("02/01/2006")
	}

	return []interface{}{
		order.OrderNumber, order.BranchName, order.Customer, order.Email,
		order.Amount, constants.CodeLabel(order.StatusCode), emission, observations,
	}
}

// ExportOrders выгружает весь отфильтрованный набор (без пагинации) в XLSX.
func (c *OrderController) ExportOrders(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	filter, err := c.buildFilter(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	orders, err := c.orderService.GetFilteredOrders(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	f := excelize.NewFile()
	sheet := "Pedidos"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &exportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "H1", style)

	for i, order := range orders {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := exportRow(order)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "B", "D", 25)
	f.SetColWidth(sheet, "H", "H", 50)

	fileName := fmt.Sprintf("pedidos_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().Header().Set("X-Total-Rows", strconv.Itoa(len(orders)))
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
