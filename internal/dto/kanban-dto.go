package dto

import "approval-gateway/internal/entities"

// KanbanColumnDTO - одна колонка доски: карточки текущей страницы
// плюс метаданные постраничного просмотра колонки.
type KanbanColumnDTO struct {
	Status     string           `json:"status"`
	TotalCards int              `json:"total_cards"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
	Cards      []entities.Order `json:"cards"`
}

type KanbanBoardDTO struct {
	Columns []KanbanColumnDTO `json:"columns"`
}
