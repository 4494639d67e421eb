package timeoff

import (
	"net/http"

	"go-timeclock/internal/middleware"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/response"
	timeofferrors "go-timeclock/internal/timeoff/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("timeoff.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timeoff.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("time-off request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateTimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Request(c.Request.Context(), c.GetString(middleware.ContextEmployeeID), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		rows []TimeOffResponse
		err  error
	)
	if c.GetBool(middleware.ContextIsAdmin) {
		rows, err = h.service.ListAll(ctx, c.Query("status"))
	} else {
		rows, err = h.service.ListByEmployee(ctx, c.GetString(middleware.ContextEmployeeID))
	}
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, pageSize := response.PageParams(c)
	data, meta := response.Paginate(rows, page, pageSize)
	response.Success(c, http.StatusOK, data, &meta)
}

func (h *Handler) GetById(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if !c.GetBool(middleware.ContextIsAdmin) && resp.EmployeeID != c.GetString(middleware.ContextEmployeeID) {
		h.writeServiceError(c, timeofferrors.ErrRequestNotFound)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// Calendar returns requests intersecting [start, end]. Employees only see
// their own.
func (h *Handler) Calendar(c *gin.Context) {
	rows, err := h.service.Overlapping(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if !c.GetBool(middleware.ContextIsAdmin) {
		self := c.GetString(middleware.ContextEmployeeID)
		own := make([]TimeOffResponse, 0, len(rows))
		for _, r := range rows {
			if r.EmployeeID == self {
				own = append(own, r)
			}
		}
		rows = own
	}
	response.Success(c, http.StatusOK, rows, nil)
}

func (h *Handler) Decide(c *gin.Context) {
	var req DecideTimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Decide(c.Request.Context(), c.GetString(middleware.ContextEmployeeID), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	err := h.service.Delete(
		c.Request.Context(),
		c.GetString(middleware.ContextEmployeeID),
		c.GetBool(middleware.ContextIsAdmin),
		c.Param("id"),
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
