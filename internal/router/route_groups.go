package router

import (
	"els_pos_backend/internal/handlers"
	"els_pos_backend/internal/middleware"
	"els_pos_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupHealthRoutes registers the unauthenticated liveness check.
func SetupHealthRoutes(engine *gin.Engine, healthHandler *handlers.HealthHandler) {
	engine.GET("/ping", healthHandler.Ping)
}

func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/login", authHandler.LoginUser)
}

func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/logout", authHandler.LogoutUser)
	group.GET("/me", authHandler.GetCurrentUser)
	group.POST("/register", middleware.RoleAuthMiddleware(models.RoleAdmin), authHandler.RegisterUser)
}

// SetupOrderRoutes sets up the order routes. Reads and status changes are open
// to every authenticated user; edits, payments, deletion and statistics are
// restricted by role.
func SetupOrderRoutes(authenticatedGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	managers := middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleManager)

	orderRoutes := authenticatedGroup.Group("/orders")
	{
		orderRoutes.POST("", orderHandler.CreateOrder)
		orderRoutes.GET("", orderHandler.GetOrders)
		orderRoutes.GET("/stats", managers, orderHandler.GetOrderStats)
		orderRoutes.GET("/table/:tableId", orderHandler.GetOrdersByTable)
		orderRoutes.GET("/:id", orderHandler.GetOrderByID)
		orderRoutes.PUT("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleManager, models.RoleWaiter), orderHandler.UpdateOrder)
		orderRoutes.PATCH("/:id/status", orderHandler.UpdateOrderStatus)
		orderRoutes.PATCH("/:id/payment", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleManager, models.RoleCashier), orderHandler.UpdatePaymentStatus)
		orderRoutes.DELETE("/:id", managers, orderHandler.DeleteOrder)
	}
}

// SetupTableRoutes sets up the read-only table routes.
func SetupTableRoutes(authenticatedGroup *gin.RouterGroup, tableHandler *handlers.TableHandler) {
	tableRoutes := authenticatedGroup.Group("/tables")
	{
		tableRoutes.GET("", tableHandler.GetTables)
		tableRoutes.GET("/:id", tableHandler.GetTableByID)
	}
}

// SetupCatalogRoutes sets up the item and staff lookups.
func SetupCatalogRoutes(authenticatedGroup *gin.RouterGroup, catalogHandler *handlers.CatalogHandler) {
	itemRoutes := authenticatedGroup.Group("/items")
	{
		itemRoutes.GET("", catalogHandler.GetItems)
		itemRoutes.GET("/:id", catalogHandler.GetItemByID)
	}

	staffRoutes := authenticatedGroup.Group("/staff")
	{
		staffRoutes.GET("", catalogHandler.GetStaff)
		staffRoutes.GET("/:id", catalogHandler.GetStaffByID)
	}
}
