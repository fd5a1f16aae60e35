package integrations

import (
	"context"

	"approval-gateway/internal/entities"
)

// PendingOrdersQuery - параметры выборки заказов, ожидающих согласования.
type PendingOrdersQuery struct {
	UserEmail string
	DateStart string
	DateEnd   string
	Types     string
	TenantID  string
}

// ApprovalAction - одна операция согласования/отклонения в ERP.
type ApprovalAction struct {
	OrderID      string
	BranchCode   string
	ApproverCode string
	TenantID     string
	Reason       string
}

// ApprovalProvider - фасад внешней системы согласования закупок.
type ApprovalProvider interface {
	Name() string
	// Authenticate проверяет корпоративные учётные данные пользователя
	// (вход дашборда делегируется ERP, своей базы пользователей у шлюза нет).
	Authenticate(ctx context.Context, username, password string) error
	PendingOrders(ctx context.Context, query PendingOrdersQuery) ([]entities.Order, error)
	Approve(ctx context.Context, action ApprovalAction) error
	Reject(ctx context.Context, action ApprovalAction) error
}
