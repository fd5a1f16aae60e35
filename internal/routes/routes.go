package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"approval-gateway/internal/controllers"
	"approval-gateway/internal/integrations"
	"approval-gateway/internal/listeners"
	"approval-gateway/internal/repositories"
	"approval-gateway/internal/services"
	"approval-gateway/pkg/config"
	"approval-gateway/pkg/eventbus"
	"approval-gateway/pkg/middleware"
	"approval-gateway/pkg/service"
)

func InitRouter(
	e *echo.Echo,
	provider integrations.ApprovalProvider,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtSvc service.JWTService,
	bus *eventbus.Bus,
	logger *zap.Logger,
	cfg *config.Config,
) {
	logger.Info("InitRouter: Начало создания маршрутов")

	// --- 0. ОБЩИЕ КОМПОНЕНТЫ ---
	api := e.Group("/api")
	api.Use(middleware.Tenant(cfg.Orders.DefaultTenant))
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)

	// --- 1. СЕРВИСЫ ---
	orderService := services.NewOrderService(provider, cacheRepo, bus, &cfg.Orders, logger.Named("order_service"))
	kanbanService := services.NewKanbanService(orderService, cfg.Orders.KanbanColumnPageSize, logger.Named("kanban_service"))
	authService := services.NewAuthService(provider, jwtSvc, logger.Named("auth_service"))

	// --- 2. СЛУШАТЕЛИ ---
	listeners.NewCacheInvalidationListener(cacheRepo, logger.Named("cache_invalidation")).Register(bus)

	// --- 3. КОНТРОЛЛЕРЫ ---
	orderCtrl := controllers.NewOrderController(orderService, logger.Named("order_controller"))
	kanbanCtrl := controllers.NewKanbanController(kanbanService, orderCtrl, logger.Named("kanban_controller"))
	authCtrl := controllers.NewAuthController(authService, logger.Named("auth_controller"))

	// --- 4. РОУТЕРЫ ---
	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, authCtrl)
	runOrderRouter(secureGroup, orderCtrl)
	runKanbanRouter(secureGroup, kanbanCtrl)

	logger.Info("InitRouter: Создание маршрутов завершено")
}
