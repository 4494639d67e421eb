package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-timeclock/internal/domain"
	"go-timeclock/internal/middleware"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authenticatorFunc func(ctx context.Context, token string) (domain.Principal, error)

func (f authenticatorFunc) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	return f(ctx, token)
}

var errBadToken = apperror.New(apperror.CodeUnauthorized, "invalid token", http.StatusUnauthorized)

func newAuthRouter(authn middleware.Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", middleware.AuthMiddleware(authn), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"employee_id": c.GetString(middleware.ContextEmployeeID),
			"role":        c.GetString(middleware.ContextRole),
			"session_id":  c.GetString(middleware.ContextSessionID),
			"ctx_id":      contextutil.GetEmployeeID(c.Request.Context()),
		})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	authn := authenticatorFunc(func(ctx context.Context, token string) (domain.Principal, error) {
		switch token {
		case "admin-token":
			return domain.Principal{EmployeeID: "emp-1", IsAdmin: true, SessionID: "sess-1"}, nil
		case "staff-token":
			return domain.Principal{EmployeeID: "emp-2", SessionID: "sess-2"}, nil
		}
		return domain.Principal{}, errBadToken
	})
	router := newAuthRouter(authn)

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer admin-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "emp-1", body["employee_id"])
		assert.Equal(t, domain.RoleAdmin, body["role"])
		assert.Equal(t, "sess-1", body["session_id"])
		assert.Equal(t, "emp-1", body["ctx_id"])
	})

	t.Run("cookie fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "staff-token"})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"role":"employee"`)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), apperror.CodeUnauthorized)
	})

	t.Run("rejected token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer forged")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
