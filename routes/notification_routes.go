package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cashtrack/cashtrack_backend/controllers"
	"github.com/cashtrack/cashtrack_backend/middleware"
)

// RegisterNotificationRoutes sets up the in-app notification endpoints
func RegisterNotificationRoutes(e *echo.Echo, db *mongo.Client) {
	notificationController := controllers.NewNotificationController(db)

	r := e.Group("/api/notifications")
	r.Use(middleware.JWTMiddleware())
	r.GET("", notificationController.List)
	r.GET("/unread", notificationController.ListUnread)
	r.GET("/unread/count", notificationController.UnreadCount)
	r.PUT("/:id/read", notificationController.MarkRead)
	r.PUT("/read-all", notificationController.MarkAllRead)
}
