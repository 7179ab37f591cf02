package flights

import (
	"errors"
	"net/http"

	"airbook/internal/shared/middleware"
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
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

// SearchFlights godoc
// @Summary Search flights
// @Tags flights
// @Produce json
// @Param departure_airport query string false "Departure airport"
// @Param arrival_airport query string false "Arrival airport"
// @Param departure_date query string false "YYYY-MM-DD"
// @Param min_price query number false "Minimum price"
// @Param max_price query number false "Maximum price"
// @Param sort_by query string false "price | departure_time"
// @Param sort_order query string false "asc | desc"
// @Success 200 {object} response.StandardApiResponse
// @Router /flights/search [get]
func (ctrl *Controller) SearchFlights(c *gin.Context) {
	criteria, err := ParseCriteria(c.Request.URL.Query())
	if err != nil {
		var ce *CriteriaError
		if errors.As(err, &ce) {
			response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid search criteria", nil, ce.Fields)
			return
		}
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	flights, err := ctrl.service.Search(c.Request.Context(), criteria)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to search flights", nil, nil)
		return
	}

	data := ToResponses(flights, middleware.IsAuthenticated(c))
	response.RespondJSON(c, "success", http.StatusOK, "Flights retrieved successfully", data, nil)
}

func (ctrl *Controller) GetAllFlights(c *gin.Context) {
	flights, err := ctrl.service.ListFlights(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list flights", nil, nil)
		return
	}
	data := ToResponses(flights, middleware.IsAuthenticated(c))
	response.RespondJSON(c, "success", http.StatusOK, "Flights retrieved successfully", data, nil)
}

func (ctrl *Controller) GetFlight(c *gin.Context) {
	id, ok := parseFlightID(c)
	if !ok {
		return
	}

	flight, err := ctrl.service.GetFlight(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrFlightNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to get flight", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Flight retrieved successfully",
		ToResponse(*flight, middleware.IsAuthenticated(c)), nil)
}

func (ctrl *Controller) GetAirports(c *gin.Context) {
	airports, err := ctrl.service.Airports(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list airports", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Airports retrieved successfully", airports, nil)
}

// Admin handlers

func (ctrl *Controller) AdminListFlights(c *gin.Context) {
	flights, err := ctrl.service.ListFlights(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list flights", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Flights retrieved successfully", flights, nil)
}

func (ctrl *Controller) CreateFlight(c *gin.Context) {
	var req CreateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	flight, err := ctrl.service.CreateFlight(c.Request.Context(), req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to create flight", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Flight created successfully", flight, nil)
}

func (ctrl *Controller) UpdateFlightStatus(c *gin.Context) {
	id, ok := parseFlightID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	flight, err := ctrl.service.UpdateStatus(c.Request.Context(), id, Status(req.Status))
	if err != nil {
		if errors.Is(err, ErrFlightNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to update flight status", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Flight status updated successfully", flight, nil)
}

func parseFlightID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid flight ID", nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}
