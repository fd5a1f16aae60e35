package middleware

import (
	"context"

	"approval-gateway/pkg/contextkeys"

	"github.com/labstack/echo/v4"
)

const TenantHeader = "x-tenant-id"

// Tenant извлекает идентификатор филиала-арендатора из заголовка запроса.
// Старые сборки дашборда заголовок не шлют, поэтому пустое значение
// заменяется настроенным по умолчанию.
func Tenant(defaultTenant string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tenant := c.Request().Header.Get(TenantHeader)
			if tenant == "" {
				tenant = defaultTenant
			}

			ctx := context.WithValue(c.Request().Context(), contextkeys.TenantIDKey, tenant)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
