package router

import (
	"database/sql"
	"fmt"

	"els_pos_backend/internal/config"
	"els_pos_backend/internal/handlers"
	"els_pos_backend/internal/middleware"
	"els_pos_backend/internal/repositories"
	"els_pos_backend/internal/services"
	"els_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB, cfg *config.Config, tokens *utils.TokenManager) error {
	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	tableRepo := repositories.NewTableRepository(db)
	itemRepo := repositories.NewItemRepository(db)
	staffRepo := repositories.NewStaffRepository(db)
	counterRepo := repositories.NewOrderNumberRepository()
	transactor := repositories.NewTransactor(db)

	// Initialize Services
	numbers, err := services.NewOrderNumberGenerator(cfg.OrderNumberStrategy, counterRepo, orderRepo, cfg.Location)
	if err != nil {
		return fmt.Errorf("order numbers: %w", err)
	}
	occupancy, err := services.NewTableOccupancySync(tableRepo, orderRepo, cfg.TableOccupancyMode)
	if err != nil {
		return fmt.Errorf("table occupancy: %w", err)
	}
	validator := services.NewReferenceValidator(tableRepo, itemRepo, staffRepo)

	authService := services.NewAuthService(authRepo, transactor, tokens)
	orderService := services.NewOrderService(orderRepo, validator, numbers, occupancy, transactor, services.OrderServiceConfig{
		DefaultTaxRate: cfg.DefaultTaxRate,
		Location:       cfg.Location,
	})
	tableService := services.NewTableService(tableRepo)
	catalogService := services.NewCatalogService(itemRepo, staffRepo)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	orderHandler := handlers.NewOrderHandler(orderService, cfg.Location)
	tableHandler := handlers.NewTableHandler(tableService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	healthHandler := handlers.NewHealthHandler(db)

	SetupHealthRoutes(engine, healthHandler)

	apiV1 := engine.Group("/api/v1")
	apiV1.GET("/health", healthHandler.Health)
	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware(tokens))
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupOrderRoutes(authenticated, orderHandler)
		SetupTableRoutes(authenticated, tableHandler)
		SetupCatalogRoutes(authenticated, catalogHandler)
	}
	return nil
}
