package erp

import "github.com/aarondl/null/v8"

// AuthResponse — структура для парсинга ответа с токеном.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// PendingResponse - корень ответа /orders/pending: список филиалов,
// внутри каждого - его документы.
type PendingResponse struct {
	Approval []BranchDTO `json:"Approval"`
}

// BranchDTO — один филиал из ответа ERP.
type BranchDTO struct {
	BranchCode   string      `json:"BranchCode"`
	BranchName   string      `json:"BranchName"`
	UserEmail    string      `json:"UserEmail"`
	ApproverCode null.String `json:"ApproverCode"`
	NumberIssues int         `json:"NumberIssues"`
	Issues       []IssueDTO  `json:"Issues"`
}

// IssueDTO — один документ (заказ на закупку) внутри филиала.
type IssueDTO struct {
	Document     string      `json:"Document"`
	NameGroup    null.String `json:"NameGroup"`
	Amount       float64     `json:"Amount"`
	StatusCode   string      `json:"StatusCode"`
	Emission     string      `json:"Emission"`
	Type         null.String `json:"Type"`
	Level        null.String `json:"Level"`
	Observations null.String `json:"Observations"`
}

// approveRequest / rejectRequest - тела мутаций ERP.
type approveRequest struct {
	OrderID      string `json:"orderId"`
	ApproverCode string `json:"approverCode"`
	TenantID     string `json:"tenantId"`
}

type rejectRequest struct {
	OrderID      string `json:"orderId"`
	ApproverCode string `json:"approverCode"`
	TenantID     string `json:"tenantId"`
	Reason       string `json:"reason"`
}
