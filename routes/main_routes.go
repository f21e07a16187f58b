package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cashtrack/cashtrack_backend/middleware"
	"github.com/cashtrack/cashtrack_backend/utils"
	"github.com/cashtrack/cashtrack_backend/websocket"
)

// SetupRoutes configures all API routes by calling individual route registration functions
func SetupRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub) {
	RegisterAuthRoutes(e, db)
	RegisterUserRoutes(e, db)
	RegisterRequestRoutes(e, db, hub)
	RegisterDashboardRoutes(e, db)
	RegisterNotificationRoutes(e, db)

	// Live notification stream.
	ws := e.Group("/ws")
	ws.Use(middleware.JWTMiddleware())
	ws.GET("", func(c echo.Context) error {
		userID, err := utils.GetUserIDFromToken(c)
		if err != nil {
			return echo.ErrUnauthorized
		}
		return websocket.HandleWebSocket(c, hub, userID)
	})

	// Stored slips and QR codes are served behind auth through the
	// download endpoints, not as a public static dir.
}
