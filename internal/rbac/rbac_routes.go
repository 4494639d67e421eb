package rbac

import (
	"go-timeclock/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, service middleware.RBACService) {
	group := r.Group("/rbac")
	{
		group.GET("/permissions/me", handler.MyPermissions)
		group.POST("/enforce", middleware.RBACAuthorize(service, "rbac", "manage"), handler.Enforce)
	}
}
