package timeoff_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-timeclock/internal/middleware"
	"go-timeclock/internal/timeoff"
	timeofferrors "go-timeclock/internal/timeoff/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTimeOffService struct {
	timeoff.Service
	requestFn     func(ctx context.Context, employeeID string, req timeoff.CreateTimeOffRequest) (timeoff.TimeOffResponse, error)
	overlappingFn func(ctx context.Context, start, end string) ([]timeoff.TimeOffResponse, error)
	deleteFn      func(ctx context.Context, actorID string, isAdmin bool, id string) error
}

func (s *stubTimeOffService) Request(ctx context.Context, employeeID string, req timeoff.CreateTimeOffRequest) (timeoff.TimeOffResponse, error) {
	return s.requestFn(ctx, employeeID, req)
}

func (s *stubTimeOffService) Overlapping(ctx context.Context, start, end string) ([]timeoff.TimeOffResponse, error) {
	return s.overlappingFn(ctx, start, end)
}

func (s *stubTimeOffService) Delete(ctx context.Context, actorID string, isAdmin bool, id string) error {
	return s.deleteFn(ctx, actorID, isAdmin, id)
}

func testContext(method, target, body, employeeID string, isAdmin bool) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextEmployeeID, employeeID)
	c.Set(middleware.ContextIsAdmin, isAdmin)
	return c, w
}

func TestTimeOffHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("create rejects unknown type at binding", func(t *testing.T) {
		c, w := testContext(http.MethodPost, "/time-off", `{"start_date":"2025-03-10","end_date":"2025-03-10","type":"holiday"}`, "e-1", false)

		timeoff.NewHandler(&stubTimeOffService{}).Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("create for caller", func(t *testing.T) {
		svc := &stubTimeOffService{
			requestFn: func(ctx context.Context, employeeID string, req timeoff.CreateTimeOffRequest) (timeoff.TimeOffResponse, error) {
				assert.Equal(t, "e-1", employeeID)
				return timeoff.TimeOffResponse{ID: "t-1", Status: timeoff.StatusPending}, nil
			},
		}
		c, w := testContext(http.MethodPost, "/time-off", `{"start_date":"2025-03-10","end_date":"2025-03-11","type":"sick"}`, "e-1", false)

		timeoff.NewHandler(svc).Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("calendar hides other employees from non-admins", func(t *testing.T) {
		svc := &stubTimeOffService{
			overlappingFn: func(ctx context.Context, start, end string) ([]timeoff.TimeOffResponse, error) {
				assert.Equal(t, "2025-03-01", start)
				assert.Equal(t, "2025-03-31", end)
				return []timeoff.TimeOffResponse{{ID: "t-1", EmployeeID: "e-1"}, {ID: "t-2", EmployeeID: "e-2"}}, nil
			},
		}
		c, w := testContext(http.MethodGet, "/time-off/calendar?start=2025-03-01&end=2025-03-31", "", "e-1", false)

		timeoff.NewHandler(svc).Calendar(c)

		require.Equal(t, http.StatusOK, w.Code)
		var env struct {
			Data []timeoff.TimeOffResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		require.Len(t, env.Data, 1)
		assert.Equal(t, "t-1", env.Data[0].ID)
	})

	t.Run("delete forwards role", func(t *testing.T) {
		svc := &stubTimeOffService{
			deleteFn: func(ctx context.Context, actorID string, isAdmin bool, id string) error {
				assert.False(t, isAdmin)
				return timeofferrors.ErrNotOwner
			},
		}
		c, w := testContext(http.MethodDelete, "/time-off/t-1", "", "e-1", false)
		c.Params = gin.Params{{Key: "id", Value: "t-1"}}

		timeoff.NewHandler(svc).Delete(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
