package analytics

import (
	"airbook/internal/shared/middleware"
	"airbook/pkg/token"

	"github.com/gin-gonic/gin"
)

func SetupAnalyticsRoutes(rg *gin.RouterGroup, controller *Controller, tokens *token.Manager) {
	admin := rg.Group("/admin/analytics")
	admin.Use(middleware.JWTAuth(tokens), middleware.RequireAdmin())
	{
		admin.GET("/dashboard", controller.GetDashboard)          // GET /api/v1/admin/analytics/dashboard
		admin.GET("/flights", controller.GetFlightLoads)          // GET /api/v1/admin/analytics/flights
		admin.GET("/bookings/daily", controller.GetDailyBookings) // GET /api/v1/admin/analytics/bookings/daily?days=30
	}
}
