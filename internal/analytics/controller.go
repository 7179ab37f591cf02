package analytics

import (
	"errors"
	"net/http"
	"strconv"

	"airbook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetDashboard godoc
// @Summary Sales overview for administrators
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.StandardApiResponse
// @Router /admin/analytics/dashboard [get]
func (ctrl *Controller) GetDashboard(c *gin.Context) {
	dashboard, err := ctrl.service.Dashboard(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to build dashboard", nil, err.Error())
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Dashboard analytics retrieved successfully", dashboard, nil)
}

func (ctrl *Controller) GetFlightLoads(c *gin.Context) {
	loads, err := ctrl.service.FlightLoads(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to get flight loads", nil, err.Error())
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Flight loads retrieved successfully", loads, nil)
}

func (ctrl *Controller) GetDailyBookings(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid days parameter", nil, err.Error())
		return
	}

	stats, err := ctrl.service.DailyBookings(c.Request.Context(), days)
	if err != nil {
		if errors.Is(err, ErrInvalidRange) {
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to get daily bookings", nil, err.Error())
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Daily booking statistics retrieved successfully", stats, nil)
}
