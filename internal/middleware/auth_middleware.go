package middleware

import (
	"context"
	"strings"

	"go-timeclock/internal/domain"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/contextutil"
	"go-timeclock/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const (
	ContextEmployeeID = "employee_id"
	ContextIsAdmin    = "is_admin"
	ContextRole       = "role"
	ContextSessionID  = "session_id"
)

// Authenticator resolves a bearer token into the calling employee.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Principal, error)
}

func AuthMiddleware(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, apperror.ErrUnauthorized.HTTPStatus, apperror.CodeUnauthorized, "Token not found", nil)
			c.Abort()
			return
		}

		principal, err := authn.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			httpErr := apperror.ToHTTP(err)
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
			c.Abort()
			return
		}

		c.Set(ContextEmployeeID, principal.EmployeeID)
		c.Set(ContextIsAdmin, principal.IsAdmin)
		c.Set(ContextRole, principal.Role())
		c.Set(ContextSessionID, principal.SessionID)

		ctx := contextutil.WithEmployeeID(c.Request.Context(), principal.EmployeeID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
