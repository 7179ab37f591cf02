package seats

import (
	"errors"
	"net/http"

	"airbook/internal/flights"
	"airbook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{service: service, validator: validator.New()}
}

func (c *Controller) GetSeatMap(ctx *gin.Context) {
	flightID, ok := parseFlightID(ctx)
	if !ok {
		return
	}

	seatMap, err := c.service.SeatMap(ctx.Request.Context(), flightID)
	if err != nil {
		respondServiceError(ctx, err, "Failed to get seat map")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Seat map retrieved successfully", seatMap, nil)
}

func (c *Controller) GetOccupiedSeats(ctx *gin.Context) {
	flightID, ok := parseFlightID(ctx)
	if !ok {
		return
	}

	occupied, err := c.service.OccupiedSeats(ctx.Request.Context(), flightID)
	if err != nil {
		respondServiceError(ctx, err, "Failed to get occupied seats")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Occupied seats retrieved successfully", occupied, nil)
}

func (c *Controller) QuoteSelection(ctx *gin.Context) {
	flightID, ok := parseFlightID(ctx)
	if !ok {
		return
	}

	var req QuoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	quote, err := c.service.Quote(ctx.Request.Context(), flightID, req)
	if err != nil {
		respondServiceError(ctx, err, "Failed to price selection")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Selection priced successfully", quote, nil)
}

func respondServiceError(ctx *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, flights.ErrFlightNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrUnknownSeat):
		response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, message, nil, err.Error())
	}
}

func parseFlightID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid flight ID", nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}
