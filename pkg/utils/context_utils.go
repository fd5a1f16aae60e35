package utils

import (
	"context"

	"approval-gateway/pkg/contextkeys"
	apperrors "approval-gateway/pkg/errors"
)

func GetUserEmailFromCtx(ctx context.Context) (string, error) {
	email, ok := ctx.Value(contextkeys.UserEmailKey).(string)
	if !ok || email == "" {
		return "", apperrors.ErrUserEmailNotFoundInContext
	}
	return email, nil
}

func GetApproverCodeFromCtx(ctx context.Context) (string, error) {
	code, ok := ctx.Value(contextkeys.ApproverCodeKey).(string)
	if !ok || code == "" {
		return "", apperrors.ErrUserEmailNotFoundInContext
	}
	return code, nil
}

func GetTenantFromCtx(ctx context.Context) (string, error) {
	tenant, ok := ctx.Value(contextkeys.TenantIDKey).(string)
	if !ok || tenant == "" {
		return "", apperrors.ErrTenantNotFoundInContext
	}
	return tenant, nil
}
