package erp

import (
	"fmt"
	"time"

	"approval-gateway/internal/entities"
	"approval-gateway/pkg/constants"

	"github.com/aarondl/null/v8"
)

// UnknownCustomer - значение-заглушка для документов без группы заявителя.
// Пустых полей в плоской записи быть не должно: по ним ищет текстовый фильтр.
const UnknownCustomer = "Unknown"

var emissionLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
}

// Transform разворачивает вложенный ответ ERP (филиалы -> документы)
// в плоский список заказов: ровно одна запись на пару (филиал, документ).
// Номер документа может повторяться в разных филиалах - это легитимные
// мультифилиальные заказы, дедупликации здесь нет. Функция чистая:
// одинаковый вход всегда даёт одинаковый выход.
func Transform(resp PendingResponse) []entities.Order {
	orders := make([]entities.Order, 0)

	for _, branch := range resp.Approval {
		for _, issue := range branch.Issues {
			customer := issue.NameGroup.String
			if !issue.NameGroup.Valid || customer == "" {
				customer = UnknownCustomer
			}

			orders = append(orders, entities.Order{
				ID:           issue.Document,
				OrderNumber:  issue.Document,
				MatrixID:     MatrixID(branch.BranchCode, issue.Document),
				Customer:     customer,
				Email:        branch.UserEmail,
				Amount:       issue.Amount,
				StatusCode:   issue.StatusCode,
				Status:       constants.NormalizeStatus(issue.StatusCode),
				Date:         parseEmission(issue.Emission),
				BranchID:     branch.BranchCode,
				BranchCode:   branch.BranchCode,
				BranchName:   branch.BranchName,
				ApproverCode: branch.ApproverCode.String,
				Type:         nullToPtr(issue.Type),
				Level:        nullToPtr(issue.Level),
				Observations: nullToPtr(issue.Observations),
			})
		}
	}

	return orders
}

// MatrixID однозначно адресует экземпляр заказа в конкретном филиале.
func MatrixID(branchCode, document string) string {
	return fmt.Sprintf("%s-%s", branchCode, document)
}

// parseEmission терпимо разбирает дату выпуска. Непригодная дата даёт
// нулевое время, но запись остаётся в списке: потерять заказ хуже,
// чем показать его без даты.
func parseEmission(s string) time.Time {
	for _, layout := range emissionLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func nullToPtr(s null.String) *string {
	if !s.Valid || s.String == "" {
		return nil
	}
	v := s.String
	return &v
}
