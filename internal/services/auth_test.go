package services

import (
	"context"
	"testing"
	"time"

	"approval-gateway/internal/dto"
	apperrors "approval-gateway/pkg/errors"
	"approval-gateway/pkg/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuthService_Login(t *testing.T) {
	jwtSvc := service.NewJWTService("test-secret", time.Hour, zap.NewNop())

	t.Run("успех: ERP принял учётные данные, выдан сессионный токен", func(t *testing.T) {
		svc := NewAuthService(&fakeProvider{}, jwtSvc, zap.NewNop())

		session, err := svc.Login(context.Background(), dto.LoginDTO{
			Email:        "maria@empresa.com",
			Password:     "secret",
			ApproverCode: "APR01",
		})
		require.NoError(t, err)
		assert.Equal(t, "Bearer", session.TokenType)
		assert.Equal(t, int64(3600), session.ExpiresIn)

		claims, err := jwtSvc.ValidateToken(session.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "maria@empresa.com", claims.Email)
		assert.Equal(t, "APR01", claims.ApproverCode)
	})

	t.Run("отказ ERP транслируется в ErrInvalidCredentials", func(t *testing.T) {
		svc := NewAuthService(&fakeProvider{authErr: apperrors.ErrInvalidCredentials}, jwtSvc, zap.NewNop())

		_, err := svc.Login(context.Background(), dto.LoginDTO{
			Email:        "maria@empresa.com",
			Password:     "wrong",
			ApproverCode: "APR01",
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}
