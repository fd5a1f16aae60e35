package services

import (
	"math"
	"strings"

	"approval-gateway/internal/entities"
	"approval-gateway/pkg/constants"
	"approval-gateway/pkg/types"
)

// Движок выборки работает поверх уже плоского списка заказов и состоит
// из чистых функций: предикаты конъюнктивны и коммутативны, пагинация
// полностью выводится из отфильтрованного набора.

// FilterOrders применяет поиск, диапазон дат, филиал и статус как единое
// И-условие. Порядок применения предикатов на результат не влияет.
func FilterOrders(orders []entities.Order, filter types.OrderFilter) []entities.Order {
	filtered := make([]entities.Order, 0, len(orders))
	for _, order := range orders {
		if !matchesSearch(order, filter.Search) {
			continue
		}
		if !matchesDateRange(order, filter.DateRange) {
			continue
		}
		if !matchesBranch(order, filter.BranchID) {
			continue
		}
		if !matchesStatus(order, filter.Status) {
			continue
		}
		filtered = append(filtered, order)
	}
	return filtered
}

// matchesSearch - регистронезависимое вхождение подстроки в номер заказа,
// имя заявителя или название филиала. Пустой запрос пропускает всё.
func matchesSearch(order entities.Order, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(order.ID), q) ||
		strings.Contains(strings.ToLower(order.OrderNumber), q) ||
		strings.Contains(strings.ToLower(order.Customer), q) ||
		strings.Contains(strings.ToLower(order.BranchName), q)
}

// matchesDateRange - обе границы включительные; отсутствующая граница
// не ограничивает.
func matchesDateRange(order entities.Order, r types.DateRange) bool {
	if r.From != nil && order.Date.Before(*r.From) {
		return false
	}
	if r.To != nil && order.Date.After(*r.To) {
		return false
	}
	return true
}

func matchesBranch(order entities.Order, branchID string) bool {
	return branchID == "" || order.BranchID == branchID
}

// matchesStatus сравнивает нормализованные статусы, так что фильтр
// принимает и UI-статус, и сырой код ERP.
func matchesStatus(order entities.Order, status string) bool {
	if status == "" {
		return true
	}
	return order.Status == constants.NormalizeStatus(status)
}

// Paginate режет отфильтрованный список на страницы. Запрошенная
// страница зажимается в [1, totalPages] - никогда не отдаём молча
// пустой срез за пределами набора.
func Paginate(orders []entities.Order, page, limit int) ([]entities.Order, types.Pagination) {
	if limit <= 0 {
		limit = 1
	}

	totalItems := len(orders)
	totalPages := int(math.Ceil(float64(totalItems) / float64(limit)))

	// Страница всегда в [1, max(totalPages, 1)]: пустой набор отдаёт
	// страницу 1, а не эхо запрошенного номера.
	switch {
	case totalPages == 0 || page < 1:
		page = 1
	case page > totalPages:
		page = totalPages
	}

	pagination := types.Pagination{
		TotalCount: uint64(totalItems),
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}

	if totalItems == 0 {
		return []entities.Order{}, pagination
	}

	start := (page - 1) * limit
	end := start + limit
	if end > totalItems {
		end = totalItems
	}

	return orders[start:end], pagination
}

// OrdersByStatus - корзина канбан-колонки: все заказы с данным
// UI-статусом, порядок прихода из API сохраняется.
func OrdersByStatus(orders []entities.Order, status string) []entities.Order {
	normalized := constants.NormalizeStatus(status)
	bucket := make([]entities.Order, 0)
	for _, order := range orders {
		if order.Status == normalized {
			bucket = append(bucket, order)
		}
	}
	return bucket
}

// OrdersByNumber - все экземпляры одного номера документа по филиалам,
// без дедупликации, в порядке прихода из API.
func OrdersByNumber(orders []entities.Order, orderNumber string) []entities.Order {
	rows := make([]entities.Order, 0)
	for _, order := range orders {
		if order.OrderNumber == orderNumber {
			rows = append(rows, order)
		}
	}
	return rows
}
