package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dispatch-system/internal/controllers"
	"dispatch-system/internal/listeners"
	"dispatch-system/internal/repositories"
	"dispatch-system/internal/services"
	"dispatch-system/pkg/config"
	"dispatch-system/pkg/eventbus"
	"dispatch-system/pkg/filestorage"
	"dispatch-system/pkg/middleware"
	"dispatch-system/pkg/service"
	"dispatch-system/pkg/telegram"
)

func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	jwtSvc service.JWTService,
	cfg *config.Config,
	logger *zap.Logger,
) {
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)

	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Upload.BasePath)
	if err != nil {
		logger.Fatal("failed to create file storage", zap.Error(err))
	}

	bus := eventbus.New(logger)
	telegramSvc := telegram.NewService(cfg.Telegram.BotToken)
	listeners.NewNotificationListener(telegramSvc, cfg.Telegram, logger).Register(bus)

	txManager := repositories.NewTxManager(dbConn)

	// Repositories.
	userRepo := repositories.NewUserRepository(dbConn, logger)
	permissionRepo := repositories.NewPermissionRepository(dbConn, logger)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	orderRepo := repositories.NewOrderRepository(dbConn, logger)
	installerRepo := repositories.NewInstallerRepository(dbConn, logger)
	assignmentRepo := repositories.NewAssignmentRepository(dbConn, logger)
	orderHistoryRepo := repositories.NewOrderHistoryRepository(dbConn, logger)
	assignmentHistoryRepo := repositories.NewAssignmentHistoryRepository(dbConn, logger)
	noteRepo := repositories.NewNoteRepository(dbConn, logger)

	// Services.
	authService := services.NewAuthService(userRepo, jwtSvc, logger)
	permissionService := services.NewAuthPermissionService(permissionRepo, cacheRepo, logger)
	orderService := services.NewOrderService(
		orderRepo, assignmentRepo, installerRepo, orderHistoryRepo,
		txManager, fileStorage, bus, logger,
	)
	installerService := services.NewInstallerService(installerRepo, txManager, logger)
	assignmentService := services.NewAssignmentService(
		assignmentRepo, orderRepo, installerRepo, assignmentHistoryRepo,
		txManager, bus, logger,
	)
	orderHistoryService := services.NewOrderHistoryService(orderHistoryRepo, logger)
	assignmentHistoryService := services.NewAssignmentHistoryService(assignmentHistoryRepo, logger)
	noteService := services.NewNoteService(noteRepo, logger)
	exportService := services.NewExportService(assignmentRepo, installerRepo, assignmentHistoryRepo, logger)

	// Controllers.
	authCtrl := controllers.NewAuthController(authService, logger)
	orderCtrl := controllers.NewOrderController(orderService, logger)
	installerCtrl := controllers.NewInstallerController(installerService, logger)
	assignmentCtrl := controllers.NewAssignmentController(assignmentService, logger)
	historyCtrl := controllers.NewHistoryController(orderHistoryService, assignmentHistoryService, logger)
	noteCtrl := controllers.NewNoteController(noteService, logger)
	exportCtrl := controllers.NewExportController(exportService, logger)

	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, secureGroup, authCtrl)
	runOrderRouter(secureGroup, orderCtrl, historyCtrl, authMW, permissionService)
	runInstallerRouter(secureGroup, installerCtrl)
	runAssignmentRouter(secureGroup, assignmentCtrl)
	runHistoryRouter(secureGroup, historyCtrl)
	runNoteRouter(secureGroup, noteCtrl)
	runExportRouter(secureGroup, exportCtrl)

	logger.Info("router initialized")
}
