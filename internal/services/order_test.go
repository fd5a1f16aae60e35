package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"approval-gateway/internal/dto"
	"approval-gateway/internal/entities"
	"approval-gateway/internal/integrations"
	"approval-gateway/pkg/config"
	"approval-gateway/pkg/constants"
	"approval-gateway/pkg/contextkeys"
	apperrors "approval-gateway/pkg/errors"
	"approval-gateway/pkg/eventbus"
	"approval-gateway/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProvider - провайдер согласования в памяти для тестов сервиса.
type fakeProvider struct {
	orders       []entities.Order
	pendingCalls int32
	approveCalls int32
	rejectCalls  int32
	mutationErr  error
	authErr      error

	// отслеживание конкурентности мутаций по одному заказу
	mutationDelay time.Duration
	inMutation    int32
	maxInMutation int32
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Authenticate(ctx context.Context, username, password string) error {
	return f.authErr
}

func (f *fakeProvider) PendingOrders(ctx context.Context, query integrations.PendingOrdersQuery) ([]entities.Order, error) {
	atomic.AddInt32(&f.pendingCalls, 1)
	return f.orders, nil
}

func (f *fakeProvider) enterMutation() func() {
	current := atomic.AddInt32(&f.inMutation, 1)
	for {
		max := atomic.LoadInt32(&f.maxInMutation)
		if current <= max || atomic.CompareAndSwapInt32(&f.maxInMutation, max, current) {
			break
		}
	}
	if f.mutationDelay > 0 {
		time.Sleep(f.mutationDelay)
	}
	return func() { atomic.AddInt32(&f.inMutation, -1) }
}

func (f *fakeProvider) Approve(ctx context.Context, action integrations.ApprovalAction) error {
	defer f.enterMutation()()
	atomic.AddInt32(&f.approveCalls, 1)
	return f.mutationErr
}

func (f *fakeProvider) Reject(ctx context.Context, action integrations.ApprovalAction) error {
	defer f.enterMutation()()
	atomic.AddInt32(&f.rejectCalls, 1)
	return f.mutationErr
}

// fakeCache - кеш в памяти, реализующий интерфейс репозитория кеша.
type fakeCache struct {
	mu      sync.Mutex
	data    map[string]string
	getErr  error
	corrupt bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value.(string)
	return nil
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", f.getErr
	}
	if f.corrupt {
		return "{not json", nil
	}
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", errors.New("cache miss")
}

func (f *fakeCache) Del(ctx context.Context, key ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range key {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeCache) DelByPrefix(ctx context.Context, prefix string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			delete(f.data, k)
		}
	}
	return nil
}

func (f *fakeCache) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.data)
}

func testOrdersConfig() *config.OrdersConfig {
	return &config.OrdersConfig{
		DefaultTenant:        "01,01",
		DefaultWindowDays:    15,
		CacheTTL:             time.Minute,
		KanbanColumnPageSize: 3,
	}
}

func mutationCtx() context.Context {
	ctx := context.WithValue(context.Background(), contextkeys.TenantIDKey, "01,01")
	ctx = context.WithValue(ctx, contextkeys.UserEmailKey, "maria@empresa.com")
	return context.WithValue(ctx, contextkeys.ApproverCodeKey, "APR01")
}

func newTestOrderService(provider *fakeProvider, cache *fakeCache) (*OrderService, *eventbus.Bus) {
	bus := eventbus.New(zap.NewNop())
	svc := NewOrderService(provider, cache, bus, testOrdersConfig(), zap.NewNop())
	return svc, bus
}

func TestOrderService_GetOrders_CacheReadThrough(t *testing.T) {
	provider := &fakeProvider{orders: sampleOrders()}
	cache := newFakeCache()
	svc, _ := newTestOrderService(provider, cache)

	filter := types.OrderFilter{TenantID: "01,01", UserEmail: "maria@empresa.com", Page: 1, Limit: 10}

	orders, pagination, err := svc.GetOrders(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, orders, 5)
	assert.Equal(t, uint64(5), pagination.TotalCount)

	// Второй запрос с тем же окном обслуживается из кеша.
	_, _, err = svc.GetOrders(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&provider.pendingCalls), "повторное чтение не ходит в ERP")
}

func TestOrderService_GetOrders_CorruptCacheTolerated(t *testing.T) {
	provider := &fakeProvider{orders: sampleOrders()}
	cache := newFakeCache()
	cache.corrupt = true
	svc, _ := newTestOrderService(provider, cache)

	orders, _, err := svc.GetOrders(context.Background(), types.OrderFilter{TenantID: "01,01", UserEmail: "x@x", Page: 1, Limit: 10})
	require.NoError(t, err, "битый кеш не фатален")
	assert.Len(t, orders, 5)
	assert.Equal(t, int32(1), atomic.LoadInt32(&provider.pendingCalls))
}

func TestOrderService_FindOrder(t *testing.T) {
	provider := &fakeProvider{orders: sampleOrders()}
	svc, _ := newTestOrderService(provider, newFakeCache())
	filter := types.OrderFilter{TenantID: "01,01", UserEmail: "x@x"}

	t.Run("найден по matrix id", func(t *testing.T) {
		order, err := svc.FindOrder(context.Background(), filter, "RJ001-042")
		require.NoError(t, err)
		assert.Equal(t, "042", order.OrderNumber)
		assert.Equal(t, "RJ001", order.BranchCode)
	})

	t.Run("неизвестный matrix id", func(t *testing.T) {
		_, err := svc.FindOrder(context.Background(), filter, "XX999-000")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestOrderService_OrdersMatrix(t *testing.T) {
	provider := &fakeProvider{orders: sampleOrders()}
	svc, _ := newTestOrderService(provider, newFakeCache())

	rows, err := svc.OrdersMatrix(context.Background(), types.OrderFilter{TenantID: "01,01", UserEmail: "x@x"}, "042")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "SP001", rows[0].BranchCode)
	assert.Equal(t, "RJ001", rows[1].BranchCode)
}

func TestOrderService_Approve(t *testing.T) {
	t.Run("успех: результат с action id и событие инвалидации кеша", func(t *testing.T) {
		provider := &fakeProvider{orders: sampleOrders()}
		cache := newFakeCache()
		svc, bus := newTestOrderService(provider, cache)

		invalidated := make(chan string, 1)
		bus.Subscribe("order.approved", func(ctx context.Context, event eventbus.Event) error {
			cache.DelByPrefix(ctx, OrdersCachePrefix("01,01"))
			invalidated <- event.Name()
			return nil
		})

		// Прогреваем кеш.
		_, _, err := svc.GetOrders(context.Background(), types.OrderFilter{TenantID: "01,01", UserEmail: "x@x", Page: 1, Limit: 10})
		require.NoError(t, err)
		require.Equal(t, 1, cache.size())

		result, err := svc.Approve(mutationCtx(), dto.ApproveOrderDTO{OrderID: "042", BranchCode: "SP001"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.ActionID)
		assert.Equal(t, "042", result.OrderID)
		assert.Equal(t, constants.StatusApproved, result.Status)

		select {
		case <-invalidated:
		case <-time.After(2 * time.Second):
			t.Fatal("событие order.approved не было опубликовано")
		}
		assert.Equal(t, 0, cache.size(), "кеш арендатора сброшен после мутации")
	})

	t.Run("отказ ERP транслируется в 502", func(t *testing.T) {
		provider := &fakeProvider{mutationErr: errors.New("erp down")}
		svc, _ := newTestOrderService(provider, newFakeCache())

		_, err := svc.Approve(mutationCtx(), dto.ApproveOrderDTO{OrderID: "042", BranchCode: "SP001"})
		require.Error(t, err)

		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadGateway, httpErr.Code)
	})

	t.Run("без арендатора в контексте мутация не уходит в ERP", func(t *testing.T) {
		provider := &fakeProvider{}
		svc, _ := newTestOrderService(provider, newFakeCache())

		_, err := svc.Approve(context.Background(), dto.ApproveOrderDTO{OrderID: "042", BranchCode: "SP001"})
		assert.ErrorIs(t, err, apperrors.ErrTenantNotFoundInContext)
		assert.Equal(t, int32(0), atomic.LoadInt32(&provider.approveCalls))
	})
}

func TestOrderService_Reject(t *testing.T) {
	t.Run("пустая причина отсекается до сетевого вызова", func(t *testing.T) {
		provider := &fakeProvider{}
		svc, _ := newTestOrderService(provider, newFakeCache())

		for _, reason := range []string{"", "   ", "\t\n"} {
			_, err := svc.Reject(mutationCtx(), dto.RejectOrderDTO{OrderID: "042", BranchCode: "SP001", Reason: reason})
			require.Error(t, err)

			var httpErr *apperrors.HttpError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		}
		assert.Equal(t, int32(0), atomic.LoadInt32(&provider.rejectCalls), "ERP не должен был вызываться")
	})

	t.Run("успех с причиной", func(t *testing.T) {
		provider := &fakeProvider{}
		svc, _ := newTestOrderService(provider, newFakeCache())

		result, err := svc.Reject(mutationCtx(), dto.RejectOrderDTO{OrderID: "042", BranchCode: "SP001", Reason: "Valor acima do limite"})
		require.NoError(t, err)
		assert.Equal(t, constants.StatusRejected, result.Status)
		assert.Equal(t, int32(1), atomic.LoadInt32(&provider.rejectCalls))
	})
}

func TestOrderService_ReadAfterMutation(t *testing.T) {
	run := func(t *testing.T, mutate func(svc *OrderService) error) {
		provider := &fakeProvider{orders: sampleOrders()}
		cache := newFakeCache()
		svc, _ := newTestOrderService(provider, cache)

		filter := types.OrderFilter{TenantID: "01,01", UserEmail: "maria@empresa.com", Page: 1, Limit: 10}

		// Прогреваем кеш.
		_, _, err := svc.GetOrders(context.Background(), filter)
		require.NoError(t, err)
		require.Equal(t, int32(1), atomic.LoadInt32(&provider.pendingCalls))
		require.Equal(t, 1, cache.size())

		require.NoError(t, mutate(svc))

		// Кеш сброшен до возврата из мутации, без ожидания слушателей.
		assert.Equal(t, 0, cache.size())

		// Немедленный refetch идёт в ERP, а не в устаревший кеш.
		_, _, err = svc.GetOrders(context.Background(), filter)
		require.NoError(t, err)
		assert.Equal(t, int32(2), atomic.LoadInt32(&provider.pendingCalls))
	}

	t.Run("после согласования", func(t *testing.T) {
		run(t, func(svc *OrderService) error {
			_, err := svc.Approve(mutationCtx(), dto.ApproveOrderDTO{OrderID: "042", BranchCode: "SP001"})
			return err
		})
	})

	t.Run("после отклонения", func(t *testing.T) {
		run(t, func(svc *OrderService) error {
			_, err := svc.Reject(mutationCtx(), dto.RejectOrderDTO{OrderID: "042", BranchCode: "SP001", Reason: "Valor acima do limite"})
			return err
		})
	})
}

func TestOrderService_MutationSerialization(t *testing.T) {
	provider := &fakeProvider{mutationDelay: 30 * time.Millisecond}
	svc, _ := newTestOrderService(provider, newFakeCache())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Approve(mutationCtx(), dto.ApproveOrderDTO{OrderID: "042", BranchCode: "SP001"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(4), atomic.LoadInt32(&provider.approveCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&provider.maxInMutation), "мутации по одному заказу не идут в ERP параллельно")

	// Последний выходящий удаляет мьютекс заказа: карта не растёт вечно.
	svc.inflightMu.Lock()
	remaining := len(svc.inflight)
	svc.inflightMu.Unlock()
	assert.Equal(t, 0, remaining, "записи мьютексов удалены после завершения мутаций")
}
