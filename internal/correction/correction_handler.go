package correction

import (
	"net/http"

	correctionerrors "go-timeclock/internal/correction/errors"
	"go-timeclock/internal/middleware"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("correction.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("correction.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("correction request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	employeeID := c.GetString(middleware.ContextEmployeeID)
	h.logger.Debug("http create correction", zap.String("employee_id", employeeID))

	var req CreateCorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Request(c.Request.Context(), employeeID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

// GetAll lists the caller's corrections, or every correction for admins.
// Admins may filter by status.
func (h *Handler) GetAll(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		rows []CorrectionResponse
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
		h.writeServiceError(c, correctionerrors.ErrCorrectionNotFound)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Decide(c *gin.Context) {
	var req DecideCorrectionRequest
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
