package auth

import (
	"airbook/internal/shared/middleware"
	"airbook/pkg/token"

	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(router *gin.RouterGroup, controller *Controller, tokens *token.Manager) {
	auth := router.Group("/auth")
	{
		// Public routes (no authentication required)
		auth.POST("/register", controller.Register)
		auth.POST("/login", controller.Login)
		auth.POST("/refresh", controller.RefreshToken)
		auth.POST("/logout", controller.Logout)

		protected := auth.Group("")
		protected.Use(middleware.JWTAuth(tokens))
		{
			protected.GET("/me", controller.GetMe)
		}
	}
}
