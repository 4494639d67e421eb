package auth

import (
	"go-timeclock/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts login on public and the session endpoints on
// protected, which must already run AuthMiddleware.
func RegisterRoutes(public, protected *gin.RouterGroup, handler *Handler) {
	public.POST("/auth/login", middleware.RateLimitByIP(0.2, 5), handler.Login)

	auth := protected.Group("/auth")
	{
		auth.GET("/me", middleware.RateLimitByUser(2, 5), handler.Me)
		auth.POST("/logout", handler.Logout)
	}
}
