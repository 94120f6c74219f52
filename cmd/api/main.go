package main

import (
	"context"
	"net/http"

	_ "restaurant/api/swagger" // swagger docs
	"restaurant/internal/config"
	"restaurant/internal/database"
	"restaurant/internal/handler"
	"restaurant/internal/logger"
	"restaurant/internal/middleware"
	"restaurant/internal/repository"
	"restaurant/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           Restaurant Inventory API
// @version         1.0
// @description     Menu, recipe, inventory and order management with inventory-consistent availability.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, loaded := config.Load()

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if !loaded {
		log.Info("no configs/.env file found, using environment only")
	}
	if len(cfg.JWTSecret) == 0 {
		log.Fatal("JWT_SECRET must be set")
	}

	db, err := database.NewConnection(cfg.DSN(), log)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	log.Info("connected to PostgreSQL", zap.String("host", cfg.DBHost), zap.String("database", cfg.DBName))

	// Repositories
	inventoryRepo := repository.NewInventoryRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	statsRepo := repository.NewStatisticsRepository(db)
	txManager := repository.NewTransactionManager(db)

	// Consistency core
	availability := service.NewAvailabilityEvaluator(menuRepo, recipeRepo, inventoryRepo, log)
	gate := service.NewValidationGate(menuRepo, recipeRepo, inventoryRepo)
	deduction := service.NewDeductionEngine(recipeRepo, inventoryRepo, movementRepo, log)

	// Availability flags may be stale after manual edits to the database.
	if err := availability.Recompute(context.Background(), nil); err != nil {
		log.Warn("initial availability recompute failed", zap.Error(err))
	}

	// Services
	orderService := service.NewOrderService(orderRepo, auditRepo, gate, deduction, availability, txManager, cfg.DefaultPreparationMinutes, log)
	menuService := service.NewMenuService(menuRepo, recipeRepo, auditRepo, availability, txManager, log)
	inventoryService := service.NewInventoryService(inventoryRepo, recipeRepo, movementRepo, auditRepo, availability, txManager, log)
	recipeService := service.NewRecipeService(recipeRepo, menuRepo, inventoryRepo, auditRepo, availability, txManager, log)
	auditService := service.NewAuditService(auditRepo)
	statisticsService := service.NewStatisticsService(statsRepo)

	// Handlers
	orderHandler := handler.NewOrderHandler(orderService)
	menuHandler := handler.NewMenuHandler(menuService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	recipeHandler := handler.NewRecipeHandler(recipeService)
	auditHandler := handler.NewAuditHandler(auditService)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	staffAuth := middleware.RequireRole(cfg.JWTSecret, middleware.RoleAdmin, middleware.RoleStaff)
	adminAuth := middleware.RequireRole(cfg.JWTSecret, middleware.RoleAdmin)

	api := router.Group("")
	orderHandler.RegisterRoutes(api, staffAuth)
	menuHandler.RegisterRoutes(api, staffAuth)
	inventoryHandler.RegisterRoutes(api, staffAuth)
	recipeHandler.RegisterRoutes(api, staffAuth)
	statisticsHandler.RegisterRoutes(api, staffAuth)
	auditHandler.RegisterRoutes(api, adminAuth)

	log.Info("server listening", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}
