package report_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	puncherrors "go-timeclock/internal/punch/errors"
	"go-timeclock/internal/report"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type reportFunc func(ctx context.Context, weekStart string) ([]byte, string, error)

func (f reportFunc) WeeklyTimesheet(ctx context.Context, weekStart string) ([]byte, string, error) {
	return f(ctx, weekStart)
}

func TestReportHandler_WeeklyTimesheet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("attachment", func(t *testing.T) {
		svc := reportFunc(func(ctx context.Context, weekStart string) ([]byte, string, error) {
			assert.Equal(t, "2026-03-02", weekStart)
			return []byte("xlsx"), "timesheet-2026-03-02.xlsx", nil
		})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/reports/timesheet.xlsx?week=2026-03-02", nil)

		report.NewHandler(svc).WeeklyTimesheet(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "timesheet-2026-03-02.xlsx")
		assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
		assert.Equal(t, "xlsx", w.Body.String())
	})

	t.Run("bad week", func(t *testing.T) {
		svc := reportFunc(func(ctx context.Context, weekStart string) ([]byte, string, error) {
			return nil, "", puncherrors.ErrInvalidDate
		})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/reports/timesheet.xlsx?week=x", nil)

		report.NewHandler(svc).WeeklyTimesheet(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
