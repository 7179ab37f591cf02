package users

import (
	"airbook/internal/shared/middleware"
	"airbook/pkg/token"

	"github.com/gin-gonic/gin"
)

func SetupUserRoutes(router *gin.RouterGroup, controller *Controller, tokens *token.Manager) {
	admin := router.Group("/admin/users")
	admin.Use(middleware.JWTAuth(tokens), middleware.RequireAdmin())
	{
		admin.GET("/pending", controller.GetPendingUsers)  // GET /api/v1/admin/users/pending
		admin.PATCH("/:id/approve", controller.ApproveUser) // PATCH /api/v1/admin/users/:id/approve
		admin.PATCH("/:id/reject", controller.RejectUser)   // PATCH /api/v1/admin/users/:id/reject
	}
}
