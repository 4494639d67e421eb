package settings

import (
	"go-timeclock/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	group := r.Group("/settings")
	{
		group.GET("", middleware.RBACAuthorize(rbacService, "settings", "read"), handler.Get)
		group.PUT("", middleware.RBACAuthorize(rbacService, "settings", "update"), handler.Update)
		group.GET("/geofence", middleware.RBACAuthorize(rbacService, "settings", "read"), handler.GetGeofence)
		group.PUT("/geofence", middleware.RBACAuthorize(rbacService, "settings", "update"), handler.UpdateGeofence)
	}
}
