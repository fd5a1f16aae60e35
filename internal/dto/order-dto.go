package dto

// ApproveOrderDTO: Что клиент присылает для согласования заказа.
type ApproveOrderDTO struct {
	OrderID    string `json:"order_id" validate:"required"`
	BranchCode string `json:"branch_code" validate:"required"`
	// ApproverCode обычно берётся из токена; поле оставлено для сборок
	// дашборда, которые шлют его явно.
	ApproverCode string `json:"approver_code,omitempty"`
}

// RejectOrderDTO: Что клиент присылает для отклонения заказа.
// Причина обязательна и не может состоять из одних пробелов.
type RejectOrderDTO struct {
	OrderID      string `json:"order_id" validate:"required"`
	BranchCode   string `json:"branch_code" validate:"required"`
	ApproverCode string `json:"approver_code,omitempty"`
	Reason       string `json:"reason" validate:"required,not_blank"`
}

// MutationResultDTO: Что сервер отправляет после успешной мутации.
type MutationResultDTO struct {
	ActionID string `json:"action_id"`
	OrderID  string `json:"order_id"`
	Status   string `json:"status"`
}
