package contextkeys

type contextKey string

const (
	UserEmailKey    contextKey = "UserEmail"
	ApproverCodeKey contextKey = "ApproverCode"
	TenantIDKey     contextKey = "TenantID"
)
