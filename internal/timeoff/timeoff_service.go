package timeoff

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	employeeerrors "go-timeclock/internal/employee/errors"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/audit"
	"go-timeclock/internal/shared/clock"
	"go-timeclock/internal/shared/contextutil"
	timeofferrors "go-timeclock/internal/timeoff/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const clockLayout = "15:04"

//go:generate mockgen -source=timeoff_service.go -destination=mock/timeoff_service_mock.go -package=mock
type Service interface {
	Request(ctx context.Context, employeeID string, req CreateTimeOffRequest) (TimeOffResponse, error)
	Decide(ctx context.Context, adminID, id string, req DecideTimeOffRequest) (TimeOffResponse, error)
	Delete(ctx context.Context, actorID string, isAdmin bool, id string) error
	GetByID(ctx context.Context, id string) (TimeOffResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]TimeOffResponse, error)
	ListAll(ctx context.Context, status string) ([]TimeOffResponse, error)
	Overlapping(ctx context.Context, start, end string) ([]TimeOffResponse, error)
	CountPending(ctx context.Context) (int64, error)
}

type Options struct {
	Clock clock.Clock
	Audit audit.Logger
}

type service struct {
	db     *sql.DB
	repo   Repository
	clock  clock.Clock
	audit  audit.Logger
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, opts Options, logger ...*zap.Logger) Service {
	l := zap.L().Named("timeoff.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timeoff.service")
	}
	if opts.Clock == nil {
		opts.Clock = clock.New(nil)
	}
	if opts.Audit == nil {
		opts.Audit = audit.Nop()
	}
	return &service{db: db, repo: repo, clock: opts.Clock, audit: opts.Audit, logger: l}
}

func (s *service) Request(ctx context.Context, employeeID string, req CreateTimeOffRequest) (TimeOffResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("time-off requested",
		zap.String("employee_id", employeeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return TimeOffResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	r, err := validateRequest(req)
	if err != nil {
		log.Warn("time-off validation failed", zap.Error(err))
		return TimeOffResponse{}, err
	}
	r.ID = uuid.New()
	r.EmployeeID = employeeUUID
	r.RequestDate = s.clock.Now()
	r.Status = StatusPending

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TimeOffResponse{}, apperror.Storage(err)
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, r); err != nil {
		log.Error("time-off persist failed", zap.Error(err))
		return TimeOffResponse{}, apperror.Storage(err)
	}
	if err := tx.Commit(); err != nil {
		return TimeOffResponse{}, apperror.Storage(err)
	}

	log.Info("time-off request created",
		zap.String("request_id", r.ID.String()),
		zap.String("employee_id", employeeID),
	)
	return mapToResponse(*r), nil
}

// Decide processes a pending request. Status, processed date and processor
// are written together; a processed request cannot be decided again.
func (s *service) Decide(ctx context.Context, adminID, id string, req DecideTimeOffRequest) (TimeOffResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if _, err := uuid.Parse(id); err != nil {
		return TimeOffResponse{}, timeofferrors.ErrInvalidRequestID
	}
	adminUUID, err := uuid.Parse(adminID)
	if err != nil {
		return TimeOffResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	target := strings.ToLower(strings.TrimSpace(req.Status))
	if target != StatusApproved && target != StatusDenied {
		return TimeOffResponse{}, timeofferrors.ErrInvalidStatus
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TimeOffResponse{}, apperror.Storage(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	r, err := qtx.FindByID(ctx, id)
	if err != nil {
		return TimeOffResponse{}, mapRepositoryError(err)
	}
	if r.Status != StatusPending {
		log.Warn("time-off reprocessing rejected",
			zap.String("request_id", id),
			zap.String("status", r.Status),
		)
		return TimeOffResponse{}, timeofferrors.ErrAlreadyProcessed
	}

	now := s.clock.Now()
	r.Status = target
	r.ProcessedDate = &now
	r.ProcessedBy = &adminUUID
	r.AdminResponse = trimmed(req.AdminResponse)

	ok, err := qtx.MarkProcessed(ctx, r)
	if err != nil {
		log.Error("time-off decision persist failed", zap.String("request_id", id), zap.Error(err))
		return TimeOffResponse{}, apperror.Storage(err)
	}
	if !ok {
		return TimeOffResponse{}, timeofferrors.ErrAlreadyProcessed
	}
	if err := tx.Commit(); err != nil {
		return TimeOffResponse{}, apperror.Storage(err)
	}

	s.audit.Log(ctx, audit.Entry{
		Action:  "TIME_OFF_DECIDE",
		ActorID: adminID,
		Message: "time-off request " + target,
		Meta: map[string]any{
			"request_id":  id,
			"employee_id": r.EmployeeID.String(),
			"status":      target,
		},
	})
	return mapToResponse(*r), nil
}

// Delete lets the owner withdraw a pending request. Admins may delete any
// request.
func (s *service) Delete(ctx context.Context, actorID string, isAdmin bool, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return timeofferrors.ErrInvalidRequestID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperror.Storage(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	r, err := qtx.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if !isAdmin {
		if r.EmployeeID.String() != actorID {
			return timeofferrors.ErrNotOwner
		}
		if r.Status != StatusPending {
			return timeofferrors.ErrOnlyPendingDeletable
		}
	}

	deleted, err := qtx.Delete(ctx, id)
	if err != nil {
		return apperror.Storage(err)
	}
	if !deleted {
		return timeofferrors.ErrRequestNotFound
	}
	if err := tx.Commit(); err != nil {
		return apperror.Storage(err)
	}

	s.audit.Log(ctx, audit.Entry{
		Action:  "TIME_OFF_DELETE",
		ActorID: actorID,
		Message: "time-off request deleted",
		Meta: map[string]any{
			"request_id":  id,
			"employee_id": r.EmployeeID.String(),
			"status":      r.Status,
		},
	})
	return nil
}

func (s *service) GetByID(ctx context.Context, id string) (TimeOffResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TimeOffResponse{}, timeofferrors.ErrInvalidRequestID
	}
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return TimeOffResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*r), nil
}

func (s *service) ListByEmployee(ctx context.Context, employeeID string) ([]TimeOffResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}
	rows, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return mapToListResponse(rows), nil
}

func (s *service) ListAll(ctx context.Context, status string) ([]TimeOffResponse, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case "", StatusPending, StatusApproved, StatusDenied:
	default:
		return nil, timeofferrors.ErrInvalidStatusFilter
	}
	rows, err := s.repo.FindAll(ctx, status)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return mapToListResponse(rows), nil
}

// Overlapping feeds calendar views. Partial-day times do not affect the
// match.
func (s *service) Overlapping(ctx context.Context, start, end string) ([]TimeOffResponse, error) {
	startDate, err := parseDate(start)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(end)
	if err != nil {
		return nil, err
	}
	if startDate.After(endDate) {
		return nil, timeofferrors.ErrInvalidDateRange
	}
	rows, err := s.repo.FindOverlapping(ctx, startDate, endDate)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return mapToListResponse(rows), nil
}

func (s *service) CountPending(ctx context.Context) (int64, error) {
	n, err := s.repo.CountByStatus(ctx, StatusPending)
	if err != nil {
		return 0, apperror.Storage(err)
	}
	return n, nil
}

func validateRequest(req CreateTimeOffRequest) (*Request, error) {
	requestType := strings.ToLower(strings.TrimSpace(req.Type))
	if !validType(requestType) {
		return nil, timeofferrors.ErrInvalidType
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if startDate.After(endDate) {
		return nil, timeofferrors.ErrInvalidDateRange
	}

	r := &Request{
		StartDate:    startDate,
		EndDate:      endDate,
		IsPartialDay: req.IsPartialDay,
		Type:         requestType,
		Reason:       trimmed(req.Reason),
	}
	if !req.IsPartialDay {
		return r, nil
	}

	startTime, endTime := trimmed(req.StartTime), trimmed(req.EndTime)
	if startTime == nil || endTime == nil {
		return nil, timeofferrors.ErrPartialDayTimesRequired
	}
	if !startDate.Equal(endDate) {
		return nil, timeofferrors.ErrPartialDaySingleDate
	}
	from, err := time.Parse(clockLayout, *startTime)
	if err != nil {
		return nil, timeofferrors.ErrInvalidTimeFormat
	}
	to, err := time.Parse(clockLayout, *endTime)
	if err != nil {
		return nil, timeofferrors.ErrInvalidTimeFormat
	}
	if !from.Before(to) {
		return nil, timeofferrors.ErrInvalidTimeRange
	}
	r.StartTime = startTime
	r.EndTime = endTime
	return r, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, timeofferrors.ErrInvalidDateFormat
	}
	return t, nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return timeofferrors.ErrRequestNotFound
	}
	return apperror.Storage(err)
}

func mapToResponse(r Request) TimeOffResponse {
	resp := TimeOffResponse{
		ID:            r.ID.String(),
		EmployeeID:    r.EmployeeID.String(),
		StartDate:     r.StartDate.Format(time.DateOnly),
		EndDate:       r.EndDate.Format(time.DateOnly),
		IsPartialDay:  r.IsPartialDay,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Type:          r.Type,
		Reason:        r.Reason,
		RequestDate:   r.RequestDate.Format(time.RFC3339),
		Status:        r.Status,
		AdminResponse: r.AdminResponse,
	}
	if r.Employee != nil {
		resp.EmployeeName = r.Employee.FullName
	}
	if r.ProcessedDate != nil {
		v := r.ProcessedDate.Format(time.RFC3339)
		resp.ProcessedDate = &v
	}
	if r.ProcessedBy != nil {
		v := r.ProcessedBy.String()
		resp.ProcessedBy = &v
	}
	return resp
}

func mapToListResponse(rows []Request) []TimeOffResponse {
	resp := make([]TimeOffResponse, len(rows))
	for i, r := range rows {
		resp[i] = mapToResponse(r)
	}
	return resp
}
