package users

import (
	"errors"
	"net/http"

	"airbook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetPendingUsers godoc
// @Summary List accounts awaiting approval
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.StandardApiResponse
// @Router /admin/users/pending [get]
func (c *Controller) GetPendingUsers(ctx *gin.Context) {
	pending, err := c.service.ListPending(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list pending users", nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Pending users retrieved successfully", ToUserResponses(pending), nil)
}

// ApproveUser godoc
// @Summary Approve a pending account
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.StandardApiResponse
// @Router /admin/users/{id}/approve [patch]
func (c *Controller) ApproveUser(ctx *gin.Context) {
	id, ok := parseUserID(ctx)
	if !ok {
		return
	}
	user, err := c.service.Approve(ctx.Request.Context(), id)
	if err != nil {
		respondModerationError(ctx, err, "Failed to approve user")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "User approved successfully", ToUserResponse(user), nil)
}

func (c *Controller) RejectUser(ctx *gin.Context) {
	id, ok := parseUserID(ctx)
	if !ok {
		return
	}
	user, err := c.service.Reject(ctx.Request.Context(), id)
	if err != nil {
		respondModerationError(ctx, err, "Failed to reject user")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "User rejected successfully", ToUserResponse(user), nil)
}

func respondModerationError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "User not found", nil, nil)
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrStatusChanged):
		response.RespondJSON(ctx, "error", http.StatusConflict, err.Error(), nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, fallback, nil, nil)
	}
}

func parseUserID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid user ID", nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}
