package timeoff

import (
	"go-timeclock/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	requests := r.Group("/time-off")
	{
		requests.GET("", middleware.RBACAuthorize(rbacService, "timeoff", "read_own"), handler.GetAll)
		requests.GET("/calendar", middleware.RBACAuthorize(rbacService, "timeoff", "read_own"), handler.Calendar)
		requests.GET("/:id", middleware.RBACAuthorize(rbacService, "timeoff", "read_own"), handler.GetById)
		requests.POST("", middleware.RBACAuthorize(rbacService, "timeoff", "create"), handler.Create)
		requests.PUT("/:id/decision", middleware.RBACAuthorize(rbacService, "timeoff", "decide"), handler.Decide)
		requests.DELETE("/:id", middleware.RBACAuthorize(rbacService, "timeoff", "delete_own"), handler.Delete)
	}
}
