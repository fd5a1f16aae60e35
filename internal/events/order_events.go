package events

// OrderApprovedEvent возникает после успешного согласования заказа в ERP.
type OrderApprovedEvent struct {
	ActionID     string
	OrderID      string
	BranchCode   string
	ApproverCode string
	TenantID     string
}

func (e OrderApprovedEvent) Name() string {
	return "order.approved"
}

// OrderRejectedEvent возникает после успешного отклонения заказа в ERP.
type OrderRejectedEvent struct {
	ActionID     string
	OrderID      string
	BranchCode   string
	ApproverCode string
	TenantID     string
	Reason       string
}

func (e OrderRejectedEvent) Name() string {
	return "order.rejected"
}
