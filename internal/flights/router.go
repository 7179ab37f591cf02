package flights

import (
	"airbook/internal/shared/middleware"
	"airbook/pkg/token"

	"github.com/gin-gonic/gin"
)

func SetupFlightRoutes(router *gin.RouterGroup, controller *Controller, tokens *token.Manager) {
	// Public catalog; available_seats only for authenticated callers
	public := router.Group("")
	public.Use(middleware.OptionalAuth(tokens))
	{
		public.GET("/airports", controller.GetAirports)         // GET /api/v1/airports
		public.GET("/flights", controller.GetAllFlights)        // GET /api/v1/flights
		public.GET("/flights/search", controller.SearchFlights) // GET /api/v1/flights/search
		public.GET("/flights/:id", controller.GetFlight)        // GET /api/v1/flights/:id
	}

	admin := router.Group("/admin/flights")
	admin.Use(middleware.JWTAuth(tokens), middleware.RequireAdmin())
	{
		admin.GET("", controller.AdminListFlights)                // GET /api/v1/admin/flights
		admin.POST("", controller.CreateFlight)                   // POST /api/v1/admin/flights
		admin.PATCH("/:id/status", controller.UpdateFlightStatus) // PATCH /api/v1/admin/flights/:id/status
	}
}
