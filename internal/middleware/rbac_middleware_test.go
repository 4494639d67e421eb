package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-timeclock/internal/domain"
	"go-timeclock/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type enforcerFunc func(req domain.EnforceRequest) (bool, error)

func (f enforcerFunc) Enforce(req domain.EnforceRequest) (bool, error) {
	return f(req)
}

func TestRBACAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	policy := enforcerFunc(func(req domain.EnforceRequest) (bool, error) {
		if req.Role == "broken" {
			return false, errors.New("enforcer down")
		}
		return req.Role == domain.RoleAdmin || (req.Resource == "punch" && req.Action == "create"), nil
	})

	newRouter := func(role, resource, action string) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			if role != "" {
				c.Set(middleware.ContextRole, role)
			}
			c.Next()
		})
		r.GET("/x", middleware.RBACAuthorize(policy, resource, action), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		return r
	}

	tests := []struct {
		name     string
		role     string
		resource string
		action   string
		want     int
	}{
		{"admin any", domain.RoleAdmin, "correction", "decide", http.StatusNoContent},
		{"employee allowed", domain.RoleEmployee, "punch", "create", http.StatusNoContent},
		{"employee denied", domain.RoleEmployee, "punch", "manage", http.StatusForbidden},
		{"no role", "", "punch", "create", http.StatusUnauthorized},
		{"enforcer error", "broken", "punch", "create", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newRouter(tt.role, tt.resource, tt.action).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusForbidden {
				assert.Contains(t, rec.Body.String(), tt.resource+":"+tt.action)
			}
		})
	}
}
