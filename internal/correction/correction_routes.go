package correction

import (
	"go-timeclock/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	corrections := r.Group("/corrections")
	{
		corrections.GET("", middleware.RBACAuthorize(rbacService, "correction", "read_own"), handler.GetAll)
		corrections.GET("/:id", middleware.RBACAuthorize(rbacService, "correction", "read_own"), handler.GetById)
		corrections.POST("", middleware.RBACAuthorize(rbacService, "correction", "create"), handler.Create)
		corrections.PUT("/:id/decision", middleware.RBACAuthorize(rbacService, "correction", "decide"), handler.Decide)
	}
}
