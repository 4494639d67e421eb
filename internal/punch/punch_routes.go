package punch

import (
	"go-timeclock/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes mounts the ledger and timesheet endpoints. rdb backs
// idempotent punch submission and may be nil.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, rdb redis.Cmdable) {
	create := []gin.HandlerFunc{
		middleware.RateLimitByUser(1, 3),
		middleware.RBACAuthorize(rbacService, "punch", "create"),
	}
	if rdb != nil {
		create = append(create, middleware.Idempotency(rdb))
	}
	create = append(create, handler.Create)

	punches := r.Group("/punches")
	{
		punches.POST("", create...)
		punches.POST("/manual", middleware.RBACAuthorize(rbacService, "punch", "manage"), handler.CreateManual)
		punches.GET("", middleware.RBACAuthorize(rbacService, "punch", "read_own"), handler.List)
		punches.GET("/status", middleware.RBACAuthorize(rbacService, "punch", "read_own"), handler.Status)
		punches.GET("/:id", middleware.RBACAuthorize(rbacService, "punch", "read_own"), handler.GetByID)
		punches.PATCH("/:id", middleware.RBACAuthorize(rbacService, "punch", "manage"), handler.Update)
		punches.DELETE("/:id", middleware.RBACAuthorize(rbacService, "punch", "manage"), handler.Delete)
	}

	timesheets := r.Group("/timesheets")
	{
		timesheets.GET("/day", middleware.RBACAuthorize(rbacService, "timesheet", "read_own"), handler.Day)
		timesheets.GET("/week", middleware.RBACAuthorize(rbacService, "timesheet", "read_own"), handler.Week)
	}
}
