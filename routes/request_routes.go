package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cashtrack/cashtrack_backend/controllers"
	"github.com/cashtrack/cashtrack_backend/middleware"
	"github.com/cashtrack/cashtrack_backend/models"
	"github.com/cashtrack/cashtrack_backend/websocket"
)

// RegisterRequestRoutes sets up the settlement request endpoints
func RegisterRequestRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub) {
	requestController := controllers.NewRequestController(db, hub)

	r := e.Group("/api/requests")
	r.Use(middleware.JWTMiddleware())

	r.POST("", requestController.CreateRequest)
	r.GET("/available", requestController.ListAvailable)
	r.GET("/my", requestController.ListMine)
	r.GET("/my/counts", requestController.CountMine)
	r.GET("/:id", requestController.GetRequest)
	r.POST("/:id/pick", requestController.PickRequest)
	r.POST("/:id/payment", requestController.UploadPayment)
	r.POST("/:id/verify", requestController.VerifyPayment)
	r.POST("/:id/fail", requestController.FailPayment)
	r.POST("/:id/revert", requestController.RevertRequest)
	r.DELETE("/:id", requestController.CancelRequest)
	r.GET("/:id/logs", requestController.GetLogs)
	r.GET("/:id/slips", requestController.GetSlips)
	r.GET("/slips/:slipId/file", requestController.DownloadSlip)

	admin := e.Group("/api/admin/requests")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireRole(models.RoleSuperAdmin))
	admin.GET("", requestController.ListAll)
	admin.POST("/withdrawal", requestController.AdminCreateWithdrawal)
}
