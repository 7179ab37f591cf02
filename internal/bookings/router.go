package bookings

import (
	"airbook/internal/shared/middleware"
	"airbook/pkg/token"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, tokens *token.Manager) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuth(tokens))
	{
		bookings.POST("", controller.CreateBooking)      // POST /api/v1/bookings
		bookings.GET("/my-trips", controller.GetMyTrips) // GET /api/v1/bookings/my-trips
		bookings.GET("/:id", controller.GetBooking)      // GET /api/v1/bookings/:id
	}
}

// Route definitions for reference:
//
// POST   /api/v1/bookings                        - Reserve seats
// Request body: { "flight_id": "...", "seats_reserved": ["1A", "1B"], "payment_status": "paid" }
// 409 errors body: { "error": "seat_conflict", "conflicting_seats": ["1B"] }
//
// GET    /api/v1/bookings/my-trips               - Caller's bookings, newest first
// GET    /api/v1/bookings/:id                    - Owner or admin
