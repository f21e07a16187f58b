package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cashtrack/cashtrack_backend/controllers"
	"github.com/cashtrack/cashtrack_backend/middleware"
	"github.com/cashtrack/cashtrack_backend/models"
)

// RegisterUserRoutes sets up profile and vendor management endpoints
func RegisterUserRoutes(e *echo.Echo, db *mongo.Client) {
	userController := controllers.NewUserController(db)

	r := e.Group("/api/users")
	r.Use(middleware.JWTMiddleware())

	r.PUT("/bank-details", userController.UpdateBankDetails)
	r.GET("/qr-code", userController.GetQRCode)

	// Vendor management is admin only.
	admin := e.Group("/api/admin/vendors")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireRole(models.RoleSuperAdmin))
	admin.POST("", userController.CreateVendor)
	admin.GET("", userController.ListVendors)
	admin.GET("/:id", userController.GetVendor)
	admin.PUT("/:id", userController.UpdateVendor)
	admin.POST("/reset-password", userController.AdminResetPassword)
}
