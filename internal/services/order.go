package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"approval-gateway/internal/dto"
	"approval-gateway/internal/entities"
	"approval-gateway/internal/events"
	"approval-gateway/internal/integrations"
	"approval-gateway/internal/repositories"
	"approval-gateway/pkg/config"
	apperrors "approval-gateway/pkg/errors"
	"approval-gateway/pkg/eventbus"
	"approval-gateway/pkg/types"
	"approval-gateway/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderServiceInterface interface {
	GetOrders(ctx context.Context, filter types.OrderFilter) ([]entities.Order, *types.Pagination, error)
	GetFilteredOrders(ctx context.Context, filter types.OrderFilter) ([]entities.Order, error)
	FindOrder(ctx context.Context, filter types.OrderFilter, matrixID string) (*entities.Order, error)
	OrdersMatrix(ctx context.Context, filter types.OrderFilter, orderNumber string) ([]entities.Order, error)
	Approve(ctx context.Context, payload dto.ApproveOrderDTO) (*dto.MutationResultDTO, error)
	Reject(ctx context.Context, payload dto.RejectOrderDTO) (*dto.MutationResultDTO, error)
}

type OrderService struct {
	provider  integrations.ApprovalProvider
	cacheRepo repositories.CacheRepositoryInterface
	bus       *eventbus.Bus
	cfg       *config.OrdersConfig
	logger    *zap.Logger

	// inflight сериализует мутации по одному и тому же заказу:
	// ERP не даёт гарантий при конкурентных approve/reject.
	inflightMu sync.Mutex
	inflight   map[string]*orderLock
}

// orderLock - мьютекс одного заказа со счётчиком держателей и ожидающих.
type orderLock struct {
	mu      sync.Mutex
	waiters int
}

func NewOrderService(
	provider integrations.ApprovalProvider,
	cacheRepo repositories.CacheRepositoryInterface,
	bus *eventbus.Bus,
	cfg *config.OrdersConfig,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		provider:  provider,
		cacheRepo: cacheRepo,
		bus:       bus,
		cfg:       cfg,
		logger:    logger,
		inflight:  make(map[string]*orderLock),
	}
}

// OrdersCachePrefix - префикс всех ключей кеша списков заказов арендатора.
func OrdersCachePrefix(tenantID string) string {
	return fmt.Sprintf("orders:%s:", tenantID)
}

func ordersCacheKey(tenantID, userEmail, dateStart, dateEnd string) string {
	return fmt.Sprintf("%s%s:%s:%s", OrdersCachePrefix(tenantID), userEmail, dateStart, dateEnd)
}

// upstreamWindow выводит окно дат для запроса в ERP. Дашборд открывается
// на последних двух неделях, поэтому отсутствующие границы подменяются
// окном по умолчанию.
func (s *OrderService) upstreamWindow(r types.DateRange) (string, string) {
	now := time.Now()

	start := now.AddDate(0, 0, -s.cfg.DefaultWindowDays)
	if r.From != nil {
		start = *r.From
	}

	end := now
	if r.To != nil {
		end = *r.To
	}

	return utils.FormatDateOnly(start), utils.FormatDateOnly(end)
}

// loadOrders - сквозное чтение: кеш по ключу (tenant, email, окно дат),
// при промахе - поход в ERP и заполнение кеша. Мутации кеш не пишут,
// только инвалидируют.
func (s *OrderService) loadOrders(ctx context.Context, filter types.OrderFilter) ([]entities.Order, error) {
	dateStart, dateEnd := s.upstreamWindow(filter.DateRange)
	cacheKey := ordersCacheKey(filter.TenantID, filter.UserEmail, dateStart, dateEnd)

	if cached, err := s.cacheRepo.Get(ctx, cacheKey); err == nil && cached != "" {
		var orders []entities.Order
		if err := json.Unmarshal([]byte(cached), &orders); err == nil {
			s.logger.Debug("Список заказов взят из кеша", zap.String("key", cacheKey))
			return orders, nil
		}
		// Битый кеш не фатален: перечитываем из ERP.
		s.logger.Warn("Не удалось распарсить кеш списка заказов", zap.String("key", cacheKey))
	}

	orders, err := s.provider.PendingOrders(ctx, integrations.PendingOrdersQuery{
		UserEmail: filter.UserEmail,
		DateStart: dateStart,
		DateEnd:   dateEnd,
		TenantID:  filter.TenantID,
	})
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(orders); err == nil {
		if err := s.cacheRepo.Set(ctx, cacheKey, string(payload), s.cfg.CacheTTL); err != nil {
			s.logger.Warn("Не удалось записать список заказов в кеш", zap.Error(err))
		}
	}

	return orders, nil
}

// GetFilteredOrders возвращает полный отфильтрованный набор без пагинации.
// Его используют канбан, матрица и экспорт.
func (s *OrderService) GetFilteredOrders(ctx context.Context, filter types.OrderFilter) ([]entities.Order, error) {
	orders, err := s.loadOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	return FilterOrders(orders, filter), nil
}

func (s *OrderService) GetOrders(ctx context.Context, filter types.OrderFilter) ([]entities.Order, *types.Pagination, error) {
	filtered, err := s.GetFilteredOrders(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	page, pagination := Paginate(filtered, filter.Page, filter.Limit)
	return page, &pagination, nil
}

func (s *OrderService) FindOrder(ctx context.Context, filter types.OrderFilter, matrixID string) (*entities.Order, error) {
	orders, err := s.loadOrders(ctx, filter)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		if orders[i].MatrixID == matrixID {
			return &orders[i], nil
		}
	}

	return nil, apperrors.ErrNotFound
}

// OrdersMatrix - все экземпляры номера документа по филиалам для
// кросс-филиальной сводки.
func (s *OrderService) OrdersMatrix(ctx context.Context, filter types.OrderFilter, orderNumber string) ([]entities.Order, error) {
	orders, err := s.loadOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	return OrdersByNumber(orders, orderNumber), nil
}

func (s *OrderService) Approve(ctx context.Context, payload dto.ApproveOrderDTO) (*dto.MutationResultDTO, error) {
	action, err := s.buildAction(ctx, payload.OrderID, payload.BranchCode, payload.ApproverCode, "")
	if err != nil {
		return nil, err
	}

	actionID := uuid.New().String()
	logger := s.logger.With(
		zap.String("actionID", actionID),
		zap.String("orderID", action.OrderID),
		zap.String("branch", action.BranchCode),
	)

	unlock := s.lockOrder(action)
	defer unlock()

	if err := s.provider.Approve(ctx, action); err != nil {
		logger.Error("Согласование заказа отклонено ERP", zap.Error(err))
		return nil, apperrors.NewHttpError(http.StatusBadGateway, "Не удалось согласовать заказ", err, map[string]interface{}{"orderID": action.OrderID})
	}

	s.invalidateOrders(ctx, action.TenantID, logger)

	logger.Info("Заказ согласован")
	s.bus.Publish(ctx, events.OrderApprovedEvent{
		ActionID:     actionID,
		OrderID:      action.OrderID,
		BranchCode:   action.BranchCode,
		ApproverCode: action.ApproverCode,
		TenantID:     action.TenantID,
	})

	return &dto.MutationResultDTO{ActionID: actionID, OrderID: action.OrderID, Status: "approved"}, nil
}

func (s *OrderService) Reject(ctx context.Context, payload dto.RejectOrderDTO) (*dto.MutationResultDTO, error) {
	// Локальная предпроверка: пустая причина не делает ни одного
	// сетевого вызова.
	reason := strings.TrimSpace(payload.Reason)
	if reason == "" {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, apperrors.ErrEmptyRejectionReason.Error(), apperrors.ErrEmptyRejectionReason, nil)
	}

	action, err := s.buildAction(ctx, payload.OrderID, payload.BranchCode, payload.ApproverCode, reason)
	if err != nil {
		return nil, err
	}

	actionID := uuid.New().String()
	logger := s.logger.With(
		zap.String("actionID", actionID),
		zap.String("orderID", action.OrderID),
		zap.String("branch", action.BranchCode),
	)

	unlock := s.lockOrder(action)
	defer unlock()

	if err := s.provider.Reject(ctx, action); err != nil {
		logger.Error("Отклонение заказа не принято ERP", zap.Error(err))
		return nil, apperrors.NewHttpError(http.StatusBadGateway, "Не удалось отклонить заказ", err, map[string]interface{}{"orderID": action.OrderID})
	}

	s.invalidateOrders(ctx, action.TenantID, logger)

	logger.Info("Заказ отклонён", zap.String("reason", reason))
	s.bus.Publish(ctx, events.OrderRejectedEvent{
		ActionID:     actionID,
		OrderID:      action.OrderID,
		BranchCode:   action.BranchCode,
		ApproverCode: action.ApproverCode,
		TenantID:     action.TenantID,
		Reason:       reason,
	})

	return &dto.MutationResultDTO{ActionID: actionID, OrderID: action.OrderID, Status: "rejected"}, nil
}

func (s *OrderService) buildAction(ctx context.Context, orderID, branchCode, approverCode, reason string) (integrations.ApprovalAction, error) {
	tenantID, err := utils.GetTenantFromCtx(ctx)
	if err != nil {
		return integrations.ApprovalAction{}, err
	}

	if approverCode == "" {
		approverCode, err = utils.GetApproverCodeFromCtx(ctx)
		if err != nil {
			return integrations.ApprovalAction{}, err
		}
	}

	return integrations.ApprovalAction{
		OrderID:      orderID,
		BranchCode:   branchCode,
		ApproverCode: approverCode,
		TenantID:     tenantID,
		Reason:       reason,
	}, nil
}

// invalidateOrders сбрасывает кеш списков арендатора до ответа клиенту:
// немедленный refetch дашборда обязан увидеть результат мутации, а не
// старый список. Ошибка сброса не фатальна - кеш доживёт свой TTL.
func (s *OrderService) invalidateOrders(ctx context.Context, tenantID string, logger *zap.Logger) {
	if err := s.cacheRepo.DelByPrefix(ctx, OrdersCachePrefix(tenantID)); err != nil {
		logger.Warn("Не удалось сбросить кеш списка заказов", zap.Error(err))
	}
}

// lockOrder берёт мьютекс конкретного заказа. Вторая мутация по тому же
// заказу дождётся первой, а не уйдёт в ERP параллельно. Запись живёт,
// пока её кто-то держит или ждёт; последний выходящий удаляет её из карты.
func (s *OrderService) lockOrder(action integrations.ApprovalAction) func() {
	key := fmt.Sprintf("%s|%s|%s", action.TenantID, action.BranchCode, action.OrderID)

	s.inflightMu.Lock()
	lock, ok := s.inflight[key]
	if !ok {
		lock = &orderLock{}
		s.inflight[key] = lock
	}
	lock.waiters++
	s.inflightMu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()

		s.inflightMu.Lock()
		lock.waiters--
		if lock.waiters == 0 {
			delete(s.inflight, key)
		}
		s.inflightMu.Unlock()
	}
}
