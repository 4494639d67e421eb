package correction

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	correctionerrors "go-timeclock/internal/correction/errors"
	employeeerrors "go-timeclock/internal/employee/errors"
	"go-timeclock/internal/punch"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/audit"
	"go-timeclock/internal/shared/clock"
	"go-timeclock/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PunchLookup resolves the punch a correction refers to.
type PunchLookup interface {
	GetByID(ctx context.Context, id string) (punch.PunchResponse, error)
}

//go:generate mockgen -source=correction_service.go -destination=mock/correction_service_mock.go -package=mock
type Service interface {
	Request(ctx context.Context, employeeID string, req CreateCorrectionRequest) (CorrectionResponse, error)
	Decide(ctx context.Context, adminID, id string, req DecideCorrectionRequest) (CorrectionResponse, error)
	GetByID(ctx context.Context, id string) (CorrectionResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]CorrectionResponse, error)
	ListAll(ctx context.Context, status string) ([]CorrectionResponse, error)
	CountPending(ctx context.Context) (int64, error)
}

type Options struct {
	Clock clock.Clock
	Audit audit.Logger
}

type service struct {
	db      *sql.DB
	repo    Repository
	punches PunchLookup
	clock   clock.Clock
	audit   audit.Logger
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, punches PunchLookup, opts Options, logger ...*zap.Logger) Service {
	l := zap.L().Named("correction.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("correction.service")
	}
	if opts.Clock == nil {
		opts.Clock = clock.New(nil)
	}
	if opts.Audit == nil {
		opts.Audit = audit.Nop()
	}
	return &service{
		db:      db,
		repo:    repo,
		punches: punches,
		clock:   opts.Clock,
		audit:   opts.Audit,
		logger:  l,
	}
}

// Request files a pending correction. A referenced punch must exist and
// belong to the employee; its date is used when none is given.
func (s *service) Request(ctx context.Context, employeeID string, req CreateCorrectionRequest) (CorrectionResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return CorrectionResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	note := strings.TrimSpace(req.Note)
	if note == "" {
		return CorrectionResponse{}, correctionerrors.ErrNoteRequired
	}

	c := &Correction{
		ID:         uuid.New(),
		EmployeeID: employeeUUID,
		Note:       note,
		Status:     StatusPending,
	}

	if req.PunchID != nil && *req.PunchID != "" {
		p, err := s.punches.GetByID(ctx, *req.PunchID)
		if err != nil {
			return CorrectionResponse{}, err
		}
		if p.EmployeeID != employeeID {
			log.Warn("correction for foreign punch rejected",
				zap.String("employee_id", employeeID),
				zap.String("punch_id", p.ID),
			)
			return CorrectionResponse{}, correctionerrors.ErrPunchNotOwned
		}
		punchUUID := uuid.MustParse(p.ID)
		c.PunchID = &punchUUID
		local := p.Timestamp.In(s.clock.Now().Location())
		c.Date = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	}

	if req.Date != "" {
		d, err := time.Parse(time.DateOnly, req.Date)
		if err != nil {
			return CorrectionResponse{}, correctionerrors.ErrInvalidDateFormat
		}
		c.Date = d
	}
	if c.Date.IsZero() {
		return CorrectionResponse{}, correctionerrors.ErrDateRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CorrectionResponse{}, apperror.Storage(err)
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, c); err != nil {
		log.Error("create correction persist failed", zap.Error(err))
		return CorrectionResponse{}, apperror.Storage(err)
	}
	if err := tx.Commit(); err != nil {
		return CorrectionResponse{}, apperror.Storage(err)
	}

	log.Info("correction requested",
		zap.String("correction_id", c.ID.String()),
		zap.String("employee_id", employeeID),
	)
	return mapToResponse(*c), nil
}

// Decide approves or denies a correction. Denial needs a note. A denied
// correction may be denied again with a new note; anything else after the
// first decision is a conflict.
func (s *service) Decide(ctx context.Context, adminID, id string, req DecideCorrectionRequest) (CorrectionResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if _, err := uuid.Parse(id); err != nil {
		return CorrectionResponse{}, correctionerrors.ErrInvalidCorrectionID
	}
	adminUUID, err := uuid.Parse(adminID)
	if err != nil {
		return CorrectionResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	target := strings.ToLower(strings.TrimSpace(req.Status))
	if target != StatusApproved && target != StatusDenied {
		return CorrectionResponse{}, correctionerrors.ErrInvalidStatus
	}
	adminNote := strings.TrimSpace(req.AdminNote)
	if target == StatusDenied && adminNote == "" {
		return CorrectionResponse{}, correctionerrors.ErrDenialNoteRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CorrectionResponse{}, apperror.Storage(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	c, err := qtx.FindByID(ctx, id)
	if err != nil {
		return CorrectionResponse{}, mapRepositoryError(err)
	}

	from := c.Status
	if !canMoveTo(from, target) {
		log.Warn("correction decision rejected",
			zap.String("correction_id", id),
			zap.String("from_status", from),
			zap.String("to_status", target),
		)
		return CorrectionResponse{}, correctionerrors.ErrInvalidStatusTransition
	}

	now := s.clock.Now()
	c.Status = target
	c.DecidedBy = &adminUUID
	c.DecidedAt = &now
	c.AdminNote = nil
	if adminNote != "" {
		c.AdminNote = &adminNote
	}

	ok, err := qtx.SaveDecision(ctx, c, from)
	if err != nil {
		log.Error("correction decision persist failed", zap.String("correction_id", id), zap.Error(err))
		return CorrectionResponse{}, apperror.Storage(err)
	}
	if !ok {
		return CorrectionResponse{}, correctionerrors.ErrInvalidStatusTransition
	}
	if err := tx.Commit(); err != nil {
		return CorrectionResponse{}, apperror.Storage(err)
	}

	s.audit.Log(ctx, audit.Entry{
		Action:  "CORRECTION_DECIDE",
		ActorID: adminID,
		Message: "correction " + target,
		Meta: map[string]any{
			"correction_id": id,
			"employee_id":   c.EmployeeID.String(),
			"from_status":   from,
			"to_status":     target,
			"admin_note":    adminNote,
		},
	})
	return mapToResponse(*c), nil
}

func (s *service) GetByID(ctx context.Context, id string) (CorrectionResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return CorrectionResponse{}, correctionerrors.ErrInvalidCorrectionID
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return CorrectionResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*c), nil
}

func (s *service) ListByEmployee(ctx context.Context, employeeID string) ([]CorrectionResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}
	rows, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return mapToListResponse(rows), nil
}

func (s *service) ListAll(ctx context.Context, status string) ([]CorrectionResponse, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case "", StatusPending, StatusApproved, StatusDenied:
	default:
		return nil, correctionerrors.ErrInvalidStatusFilter
	}
	rows, err := s.repo.FindAll(ctx, status)
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

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return correctionerrors.ErrCorrectionNotFound
	}
	return apperror.Storage(err)
}

func mapToResponse(c Correction) CorrectionResponse {
	resp := CorrectionResponse{
		ID:         c.ID.String(),
		EmployeeID: c.EmployeeID.String(),
		Date:       c.Date.Format(time.DateOnly),
		Note:       c.Note,
		Status:     c.Status,
		AdminNote:  c.AdminNote,
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
	}
	if c.Employee != nil {
		resp.EmployeeName = c.Employee.FullName
	}
	if c.PunchID != nil {
		v := c.PunchID.String()
		resp.PunchID = &v
	}
	if c.DecidedBy != nil {
		v := c.DecidedBy.String()
		resp.DecidedBy = &v
	}
	if c.DecidedAt != nil {
		v := c.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}

func mapToListResponse(rows []Correction) []CorrectionResponse {
	resp := make([]CorrectionResponse, len(rows))
	for i, c := range rows {
		resp[i] = mapToResponse(c)
	}
	return resp
}
