package entities

import "time"

// Order - плоская запись заказа на закупку, с которой работают
// фильтрация, пагинация и канбан. Один номер документа может встречаться
// в нескольких филиалах, поэтому уникален только MatrixID.
type Order struct {
	ID          string `json:"id"`
	OrderNumber string `json:"order_number"`
	// MatrixID = branchCode-orderNumber, адресует конкретный экземпляр
	// заказа в мультифилиальной матрице.
	MatrixID string  `json:"matrix_id"`
	Customer string  `json:"customer"`
	Email    string  `json:"email"`
	Amount   float64 `json:"amount"`
	// StatusCode - исходный код ERP, Status - нормализованный UI-статус.
	StatusCode string    `json:"status_code"`
	Status     string    `json:"status"`
	Date       time.Time `json:"date"`

	BranchID   string `json:"branch_id"`
	BranchCode string `json:"branch_code"`
	BranchName string `json:"branch_name"`

	ApproverCode string  `json:"approver_code,omitempty"`
	Type         *string `json:"type,omitempty"`
	Level        *string `json:"level,omitempty"`
	Observations *string `json:"observations,omitempty"`
}
