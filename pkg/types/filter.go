package types

import "time"

// DateRange - диапазон дат выпуска заказа. Обе границы включительные,
// отсутствие границы означает "не ограничено".
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// OrderFilter represents query parameters for filtering and pagination.
type OrderFilter struct {
	Status    string    `json:"status,omitempty"`
	Search    string    `json:"search,omitempty"`
	DateRange DateRange `json:"date_range,omitempty"`
	BranchID  string    `json:"branch_id,omitempty"`
	TenantID  string    `json:"tenant_id,omitempty"`
	UserEmail string    `json:"user_email,omitempty"`
	Limit     int       `json:"limit"`
	Page      int       `json:"page"`
}

// Pagination represents pagination metadata.
type Pagination struct {
	TotalCount uint64 `json:"total_count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}

// http://localhost:8080/api/orders?search=042&status=pending&date_from=2026-08-01&date_to=2026-08-15&limit=10&page=1
