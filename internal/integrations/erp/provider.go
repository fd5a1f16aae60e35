package erp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"approval-gateway/internal/entities"
	"approval-gateway/internal/integrations"
	apperrors "approval-gateway/pkg/errors"
)

const (
	pendingEndpoint = "/api/v1/orders/pending"
	approveEndpoint = "/api/v1/orders/approve"
	rejectEndpoint  = "/api/v1/orders/reject"
)

// Provider - "чистый фасад" модуля согласования закупок в ERP.
type Provider struct {
	httpClient *http.Client
	baseURL    string
	username   string
	password   string
	logger     *zap.Logger

	// Поля для кэширования токена
	token       string
	tokenExpiry time.Time
	tokenMutex  sync.RWMutex
}

func New(baseURL, username, password string, timeout time.Duration, logger *zap.Logger) integrations.ApprovalProvider {
	return &Provider{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		username:   username,
		password:   password,
		logger:     logger.Named("erp_provider"),
	}
}

func (p *Provider) Name() string {
	return "erp"
}

// Authenticate выполняет password-grant с учётными данными пользователя.
// Токен пользователя не сохраняется: шлюзу важен только факт, что ERP
// эти данные принимает.
func (p *Provider) Authenticate(ctx context.Context, username, password string) error {
	payload := fmt.Sprintf("grant_type=password&username=%s&password=%s",
		url.QueryEscape(username),
		url.QueryEscape(password),
	)

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/token", strings.NewReader(payload))
	if err != nil {
		return fmt.Errorf("ошибка создания запроса на аутентификацию: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка выполнения запроса на аутентификацию: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperrors.ErrInvalidCredentials
	}

	return nil
}

// PendingOrders запрашивает вложенный список филиалов с документами
// и сразу разворачивает его в плоские записи заказов.
func (p *Provider) PendingOrders(ctx context.Context, query integrations.PendingOrdersQuery) ([]entities.Order, error) {
	params := url.Values{}
	params.Set("userEmail", query.UserEmail)
	params.Set("dateStart", query.DateStart)
	params.Set("dateEnd", query.DateEnd)
	if query.Types != "" {
		params.Set("types", query.Types)
	}
	params.Set("tenantId", query.TenantID)

	rawData, err := p.fetchData(ctx, pendingEndpoint, params, query.TenantID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения заказов на согласование: %w", err)
	}

	var resp PendingResponse
	if err := json.Unmarshal(rawData, &resp); err != nil {
		return nil, fmt.Errorf("ошибка парсинга ответа '%s': %w", pendingEndpoint, err)
	}

	orders := Transform(resp)
	p.logger.Debug("Получены заказы на согласование",
		zap.String("tenant", query.TenantID),
		zap.Int("branches", len(resp.Approval)),
		zap.Int("orders", len(orders)),
	)

	return orders, nil
}

func (p *Provider) Approve(ctx context.Context, action integrations.ApprovalAction) error {
	body := approveRequest{
		OrderID:      action.OrderID,
		ApproverCode: action.ApproverCode,
		TenantID:     action.TenantID,
	}
	return p.postData(ctx, approveEndpoint, body, action.TenantID)
}

func (p *Provider) Reject(ctx context.Context, action integrations.ApprovalAction) error {
	body := rejectRequest{
		OrderID:      action.OrderID,
		ApproverCode: action.ApproverCode,
		TenantID:     action.TenantID,
		Reason:       action.Reason,
	}
	return p.postData(ctx, rejectEndpoint, body, action.TenantID)
}
