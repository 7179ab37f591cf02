package seats

import (
	"airbook/internal/shared/middleware"
	"airbook/pkg/token"

	"github.com/gin-gonic/gin"
)

func SetupSeatRoutes(rg *gin.RouterGroup, controller *Controller, tokens *token.Manager) {
	seats := rg.Group("/flights/:id")
	seats.Use(middleware.OptionalAuth(tokens))
	{
		seats.GET("/seat-map", controller.GetSeatMap)             // GET /api/v1/flights/:id/seat-map
		seats.GET("/occupied-seats", controller.GetOccupiedSeats) // GET /api/v1/flights/:id/occupied-seats
		seats.POST("/selection", controller.QuoteSelection)       // POST /api/v1/flights/:id/selection
	}
}
