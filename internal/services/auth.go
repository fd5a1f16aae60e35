package services

import (
	"context"

	"approval-gateway/internal/dto"
	"approval-gateway/internal/integrations"
	apperrors "approval-gateway/pkg/errors"
	"approval-gateway/pkg/service"

	"go.uber.org/zap"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.LoginResponseDTO, error)
}

// AuthService меняет корпоративные учётные данные на сессионный токен
// шлюза. Своей базы пользователей нет: проверку делегируем ERP.
type AuthService struct {
	provider integrations.ApprovalProvider
	jwtSvc   service.JWTService
	logger   *zap.Logger
}

func NewAuthService(provider integrations.ApprovalProvider, jwtSvc service.JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{
		provider: provider,
		jwtSvc:   jwtSvc,
		logger:   logger,
	}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.LoginResponseDTO, error) {
	if err := s.provider.Authenticate(ctx, payload.Email, payload.Password); err != nil {
		s.logger.Warn("Вход отклонён ERP", zap.String("email", payload.Email), zap.Error(err))
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtSvc.GenerateToken(payload.Email, payload.ApproverCode)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Пользователь вошёл в систему", zap.String("email", payload.Email))
	return &dto.LoginResponseDTO{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtSvc.GetAccessTokenTTL().Seconds()),
	}, nil
}
