package bookings

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
	coordinator *Coordinator
	validator   *validator.Validate
}

func NewController(coordinator *Coordinator) *Controller {
	return &Controller{
		coordinator: coordinator,
		validator:   validator.New(),
	}
}

// CreateBooking godoc
// @Summary Reserve seats on a flight
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ReserveRequest true "Seats to reserve"
// @Success 201 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Failure 422 {object} response.StandardApiResponse
// @Failure 503 {object} response.StandardApiResponse
// @Router /bookings [post]
func (ctrl *Controller) CreateBooking(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	var req ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.respondError(c, newError(KindInvalidSeatRequest, err))
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		ctrl.respondError(c, newError(KindInvalidSeatRequest, err))
		return
	}
	flightID, err := uuid.Parse(req.FlightID)
	if err != nil {
		ctrl.respondError(c, newError(KindInvalidSeatRequest, err))
		return
	}

	booking, err := ctrl.coordinator.Reserve(c.Request.Context(), sess, flightID, req.Seats, PaymentStatus(req.PaymentStatus))
	if err != nil {
		var rerr *Error
		if !errors.As(err, &rerr) {
			rerr = newError(KindReservationUnavailable, err)
		}
		ctrl.respondError(c, rerr)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Booking confirmed", ToBookingResponse(booking), nil)
}

// GetMyTrips handles GET /api/v1/bookings/my-trips
func (ctrl *Controller) GetMyTrips(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	list, err := ctrl.coordinator.ListUserBookings(c.Request.Context(), userID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to get bookings", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved successfully", ToBookingResponses(list), nil)
}

// GetBooking handles GET /api/v1/bookings/:id
func (ctrl *Controller) GetBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	booking, err := ctrl.coordinator.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Booking not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to get booking", nil, nil)
		return
	}

	// non-admin users can only see their own bookings
	sess := middleware.CurrentSession(c)
	if !sess.IsAdmin && booking.UserID != userID {
		response.RespondJSON(c, "error", http.StatusForbidden, "Access denied", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Booking retrieved successfully", ToBookingResponse(booking), nil)
}

func (ctrl *Controller) respondError(c *gin.Context, err *Error) {
	response.RespondJSON(c, "error", HTTPStatus(err.Kind), err.Error(), nil, ToErrorBody(err))
}

func callerID(c *gin.Context) (uuid.UUID, bool) {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(sess.UserID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid user ID", nil, nil)
		return uuid.Nil, false
	}
	return id, true
}
