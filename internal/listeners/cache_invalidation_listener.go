package listeners

import (
	"context"

	"approval-gateway/internal/events"
	"approval-gateway/internal/repositories"
	"approval-gateway/internal/services"
	"approval-gateway/pkg/eventbus"

	"go.uber.org/zap"
)

// CacheInvalidationListener сбрасывает закэшированные списки заказов
// арендатора по событиям мутаций. Сервис заказов сбрасывает кеш
// синхронно до ответа клиенту; слушатель повторяет сброс для событий,
// опубликованных другими источниками. Мутации никогда не пишут в кеш
// напрямую: источник истины - ERP, следующий запрос перечитает его.
type CacheInvalidationListener struct {
	cacheRepo repositories.CacheRepositoryInterface
	logger    *zap.Logger
}

func NewCacheInvalidationListener(cacheRepo repositories.CacheRepositoryInterface, logger *zap.Logger) *CacheInvalidationListener {
	return &CacheInvalidationListener{cacheRepo: cacheRepo, logger: logger}
}

// Register подписывает слушателя на события мутаций.
func (l *CacheInvalidationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.OrderApprovedEvent{}.Name(), l.handle)
	bus.Subscribe(events.OrderRejectedEvent{}.Name(), l.handle)
}

func (l *CacheInvalidationListener) handle(ctx context.Context, event eventbus.Event) error {
	var tenantID string
	switch e := event.(type) {
	case events.OrderApprovedEvent:
		tenantID = e.TenantID
	case events.OrderRejectedEvent:
		tenantID = e.TenantID
	default:
		return nil
	}

	prefix := services.OrdersCachePrefix(tenantID)
	if err := l.cacheRepo.DelByPrefix(ctx, prefix); err != nil {
		return err
	}

	l.logger.Debug("Кеш списка заказов сброшен",
		zap.String("event", event.Name()),
		zap.String("tenant", tenantID),
	)
	return nil
}
