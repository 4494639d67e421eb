package punch

import (
	"net/http"
	"strings"
	"time"

	puncherrors "go-timeclock/internal/punch/errors"
	"go-timeclock/internal/middleware"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	loc     *time.Location
	logger  *zap.Logger
}

// NewHandler parses date-only filters in loc, which must match the service
// clock's location. A nil loc means time.Local.
func NewHandler(service Service, loc *time.Location, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("punch.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("punch.handler")
	}
	if loc == nil {
		loc = time.Local
	}
	return &Handler{service: service, loc: loc, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("punch request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreatePunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), c.GetString(middleware.ContextEmployeeID), req, c.ClientIP())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) CreateManual(c *gin.Context) {
	var req ManualPunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.CreateManual(c.Request.Context(), c.GetString(middleware.ContextEmployeeID), req, c.ClientIP())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdatePunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), c.GetString(middleware.ContextEmployeeID), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	deleted, err := h.service.Delete(c.Request.Context(), c.GetString(middleware.ContextEmployeeID), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if !deleted {
		h.writeServiceError(c, puncherrors.ErrPunchNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// List returns the caller's own punches. Admins get every employee's punches
// unless they narrow it with employee_id.
func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	rng, err := parseRange(c.Query("from"), c.Query("to"), h.loc)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var rows []PunchResponse
	if c.GetBool(middleware.ContextIsAdmin) {
		if target := c.Query("employee_id"); target != "" {
			rows, err = h.service.ListByEmployee(ctx, target, rng)
		} else {
			rows, err = h.service.ListAll(ctx, rng)
		}
	} else {
		rows, err = h.service.ListByEmployee(ctx, c.GetString(middleware.ContextEmployeeID), rng)
	}
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if c.Query("flagged") == "true" {
		flagged := make([]PunchResponse, 0, len(rows))
		for _, r := range rows {
			if r.Flagged {
				flagged = append(flagged, r)
			}
		}
		rows = flagged
	}

	page, pageSize := response.PageParams(c)
	data, meta := response.Paginate(rows, page, pageSize)
	response.Success(c, http.StatusOK, data, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if !c.GetBool(middleware.ContextIsAdmin) && resp.EmployeeID != c.GetString(middleware.ContextEmployeeID) {
		h.writeServiceError(c, puncherrors.ErrPunchNotFound)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Status(c *gin.Context) {
	resp, err := h.service.Status(c.Request.Context(), h.subject(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Day(c *gin.Context) {
	resp, err := h.service.DaySummary(c.Request.Context(), h.subject(c), c.Query("date"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Week(c *gin.Context) {
	resp, err := h.service.WeekSummary(c.Request.Context(), h.subject(c), c.Query("week_start"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// subject is the employee a read is about: admins may name anyone.
func (h *Handler) subject(c *gin.Context) string {
	if c.GetBool(middleware.ContextIsAdmin) {
		if target := strings.TrimSpace(c.Query("employee_id")); target != "" {
			return target
		}
	}
	return c.GetString(middleware.ContextEmployeeID)
}

// parseRange accepts YYYY-MM-DD or RFC3339 bounds. Dates are midnights in
// loc and a date-only "to" covers that whole day.
func parseRange(from, to string, loc *time.Location) (Range, error) {
	var rng Range
	if from != "" {
		t, _, err := parseBound(from, loc)
		if err != nil {
			return Range{}, err
		}
		rng.From = t
	}
	if to != "" {
		t, dateOnly, err := parseBound(to, loc)
		if err != nil {
			return Range{}, err
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1)
		}
		rng.To = t
	}
	return rng, nil
}

func parseBound(v string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(time.DateOnly, v, loc); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false, puncherrors.ErrInvalidDate
	}
	return t, false, nil
}
