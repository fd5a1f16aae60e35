package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// tenantHeader - часть ревизий ERP ждёт арендатора в заголовке,
// часть - в теле. Шлём заголовок всегда, тело заполняет вызывающий.
const tenantHeader = "TenantId"

func (p *Provider) fetchData(ctx context.Context, endpoint string, query url.Values, tenantID string) (json.RawMessage, error) {
	token, err := p.getToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить токен аутентификации: %w", err)
	}

	fullURL := p.baseURL + endpoint
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания GET-запроса: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if tenantID != "" {
		req.Header.Set(tenantHeader, tenantID)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения GET-запроса для '%s': %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ERP для эндпоинта '%s' вернул статус: %s, тело ответа: %s", endpoint, resp.Status, string(bodyBytes))
	}

	return io.ReadAll(resp.Body)
}

func (p *Provider) postData(ctx context.Context, endpoint string, body interface{}, tenantID string) error {
	token, err := p.getToken(ctx)
	if err != nil {
		return fmt.Errorf("не удалось получить токен аутентификации: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("ошибка сериализации тела запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("ошибка создания POST-запроса: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	if tenantID != "" {
		req.Header.Set(tenantHeader, tenantID)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка выполнения POST-запроса для '%s': %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ERP для эндпоинта '%s' вернул статус: %s, тело ответа: %s", endpoint, resp.Status, string(bodyBytes))
	}

	return nil
}
