package services

import (
	"context"

	"approval-gateway/internal/dto"
	"approval-gateway/pkg/constants"
	"approval-gateway/pkg/types"

	"go.uber.org/zap"
)

type KanbanServiceInterface interface {
	Board(ctx context.Context, filter types.OrderFilter, columnPages map[string]int) (*dto.KanbanBoardDTO, error)
}

// KanbanService строит доску поверх движка выборки: одна корзина на
// UI-статус, каждая колонка листается независимо с фиксированным
// маленьким размером страницы.
type KanbanService struct {
	orderService   OrderServiceInterface
	columnPageSize int
	logger         *zap.Logger
}

func NewKanbanService(orderService OrderServiceInterface, columnPageSize int, logger *zap.Logger) *KanbanService {
	return &KanbanService{
		orderService:   orderService,
		columnPageSize: columnPageSize,
		logger:         logger,
	}
}

// Board собирает все колонки доски. columnPages - запрошенная страница
// каждой колонки; отсутствующая или выпавшая за пределы страница
// зажимается, поэтому после мутации, укоротившей колонку, клиент
// получает ближайшую валидную страницу, а не пустую.
func (s *KanbanService) Board(ctx context.Context, filter types.OrderFilter, columnPages map[string]int) (*dto.KanbanBoardDTO, error) {
	// Статусный фильтр списка здесь не применяется: на доске всегда
	// видны все три колонки.
	filter.Status = ""

	filtered, err := s.orderService.GetFilteredOrders(ctx, filter)
	if err != nil {
		return nil, err
	}

	board := &dto.KanbanBoardDTO{Columns: make([]dto.KanbanColumnDTO, 0, len(constants.UIStatuses))}
	for _, status := range constants.UIStatuses {
		bucket := OrdersByStatus(filtered, status)

		page := columnPages[status]
		if page < 1 {
			page = 1
		}

		cards, pagination := Paginate(bucket, page, s.columnPageSize)
		board.Columns = append(board.Columns, dto.KanbanColumnDTO{
			Status:     status,
			TotalCards: len(bucket),
			Page:       pagination.Page,
			PageSize:   s.columnPageSize,
			TotalPages: pagination.TotalPages,
			Cards:      cards,
		})
	}

	return board, nil
}
