package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cashtrack/cashtrack_backend/controllers"
	"github.com/cashtrack/cashtrack_backend/middleware"
	"github.com/cashtrack/cashtrack_backend/models"
)

// RegisterDashboardRoutes sets up the ledger and dashboard endpoints
func RegisterDashboardRoutes(e *echo.Echo, db *mongo.Client) {
	dashboardController := controllers.NewDashboardController(db)

	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())
	r.GET("/transactions", dashboardController.MyTransactions)
	r.GET("/dashboard", dashboardController.MyDashboard)
	r.GET("/dashboard/volume", dashboardController.MyVolume)

	admin := e.Group("/api/admin")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireRole(models.RoleSuperAdmin))
	admin.GET("/dashboard", dashboardController.AdminDashboard)
	admin.GET("/transactions", dashboardController.AdminListTransactions)
	admin.GET("/transactions/export", dashboardController.ExportTransactions)
}
