package punch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-timeclock/internal/employee"
	employeeerrors "go-timeclock/internal/employee/errors"
	"go-timeclock/internal/events"
	"go-timeclock/internal/geofence"
	puncherrors "go-timeclock/internal/punch/errors"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/audit"
	"go-timeclock/internal/shared/clock"
	"go-timeclock/internal/shared/contextutil"
	"go-timeclock/internal/timecalc"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultDedupWindow is how long a punch blocks another of the same type.
const DefaultDedupWindow = 30 * time.Second

// EmployeeDirectory resolves the employee behind a punch.
type EmployeeDirectory interface {
	Lookup(ctx context.Context, id string) (*employee.Employee, error)
}

// GeofenceSource supplies the current geofence settings.
type GeofenceSource interface {
	GetGeofence(ctx context.Context) (geofence.Config, error)
}

//go:generate mockgen -source=punch_service.go -destination=mock/punch_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, employeeID string, req CreatePunchRequest, ip string) (PunchResponse, error)
	CreateManual(ctx context.Context, adminID string, req ManualPunchRequest, ip string) (PunchResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdatePunchRequest) (PunchResponse, error)
	Delete(ctx context.Context, actorID, id string) (bool, error)
	GetByID(ctx context.Context, id string) (PunchResponse, error)
	ListByEmployee(ctx context.Context, employeeID string, rng Range) ([]PunchResponse, error)
	ListAll(ctx context.Context, rng Range) ([]PunchResponse, error)
	LastPunchFor(ctx context.Context, employeeID string) (*PunchResponse, error)
	Status(ctx context.Context, employeeID string) (StatusResponse, error)
	DaySummary(ctx context.Context, employeeID, date string) (timecalc.DaySummary, error)
	WeekSummary(ctx context.Context, employeeID, weekStart string) (timecalc.WeekSummary, error)
}

type Options struct {
	DedupWindow time.Duration
	Clock       clock.Clock
	Locker      Locker
	Publisher   EventPublisher
	Audit       audit.Logger
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees EmployeeDirectory
	geofence  GeofenceSource
	window    time.Duration
	clock     clock.Clock
	locker    Locker
	publisher EventPublisher
	audit     audit.Logger
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees EmployeeDirectory,
	geofence GeofenceSource,
	opts Options,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("punch.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("punch.service")
	}
	if opts.DedupWindow <= 0 {
		opts.DedupWindow = DefaultDedupWindow
	}
	if opts.Clock == nil {
		opts.Clock = clock.New(nil)
	}
	if opts.Locker == nil {
		opts.Locker = NewLocalLocker()
	}
	if opts.Publisher == nil {
		opts.Publisher = noopEventPublisher{}
	}
	if opts.Audit == nil {
		opts.Audit = audit.Nop()
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		geofence:  geofence,
		window:    opts.DedupWindow,
		clock:     opts.Clock,
		locker:    opts.Locker,
		publisher: opts.Publisher,
		audit:     opts.Audit,
		logger:    l,
	}
}

// Create records a self-service punch at the server's wall-clock time. A punch
// of the same type for the same employee within the dedup window is rejected.
func (s *service) Create(ctx context.Context, employeeID string, req CreatePunchRequest, ip string) (PunchResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	req.PunchType = strings.ToLower(strings.TrimSpace(req.PunchType))
	if !ValidType(req.PunchType) {
		return PunchResponse{}, puncherrors.ErrInvalidPunchType
	}
	coords, err := coordinates(req.Latitude, req.Longitude)
	if err != nil {
		return PunchResponse{}, err
	}

	empl, err := s.activeEmployee(ctx, employeeID)
	if err != nil {
		return PunchResponse{}, err
	}

	fence, err := s.geofence.GetGeofence(ctx)
	if err != nil {
		return PunchResponse{}, err
	}
	flagged := geofence.ShouldFlag(fence, coords) || req.Flagged

	unlock, err := s.locker.Lock(ctx, lockKey(empl.ID, req.PunchType))
	if err != nil {
		if errors.Is(err, ErrLockTimeout) {
			log.Warn("punch lock busy", zap.String("employee_id", employeeID), zap.String("punch_type", req.PunchType))
			return PunchResponse{}, puncherrors.ErrDuplicatePunch
		}
		log.Error("acquire punch lock failed", zap.Error(err))
		return PunchResponse{}, apperror.Storage(err)
	}
	defer unlock()

	now := s.clock.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create punch begin tx failed", zap.Error(err))
		return PunchResponse{}, apperror.Storage(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	dup, err := qtx.ExistsSince(ctx, empl.ID, req.PunchType, now.Add(-s.window))
	if err != nil {
		log.Error("create punch dedup check failed", zap.Error(err))
		return PunchResponse{}, apperror.Storage(err)
	}
	if dup {
		log.Info("duplicate punch rejected",
			zap.String("employee_id", employeeID),
			zap.String("punch_type", req.PunchType),
		)
		return PunchResponse{}, puncherrors.ErrDuplicatePunch
	}

	row := &Punch{
		ID:         uuid.New(),
		EmployeeID: empl.ID,
		PunchType:  req.PunchType,
		Timestamp:  now,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		IPAddress:  ip,
		Flagged:    flagged,
		Source:     SourceSelf,
	}
	if err := qtx.Create(ctx, row); err != nil {
		log.Error("create punch persist failed", zap.Error(err))
		return PunchResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		log.Error("create punch commit failed", zap.Error(err))
		return PunchResponse{}, apperror.Storage(err)
	}

	log.Info("punch recorded",
		zap.String("punch_id", row.ID.String()),
		zap.String("employee_id", employeeID),
		zap.String("punch_type", row.PunchType),
		zap.Bool("flagged", row.Flagged),
	)
	s.publish(ctx, events.EventPunchRecorded, *row, employeeID)

	row.Employee = &EmployeeRef{ID: empl.ID, FullName: empl.FullName, IsAdmin: empl.IsAdmin}
	return mapToResponse(*row), nil
}

// CreateManual backfills a punch with an admin-supplied timestamp. It bypasses
// the dedup window.
func (s *service) CreateManual(ctx context.Context, adminID string, req ManualPunchRequest, ip string) (PunchResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	req.PunchType = strings.ToLower(strings.TrimSpace(req.PunchType))
	if !ValidType(req.PunchType) {
		return PunchResponse{}, puncherrors.ErrInvalidPunchType
	}
	if req.Timestamp.IsZero() {
		return PunchResponse{}, puncherrors.ErrTimestampRequired
	}

	empl, err := s.employees.Lookup(ctx, req.EmployeeID)
	if err != nil {
		return PunchResponse{}, err
	}

	row := &Punch{
		ID:         uuid.New(),
		EmployeeID: empl.ID,
		PunchType:  req.PunchType,
		Timestamp:  req.Timestamp,
		IPAddress:  ip,
		Flagged:    req.Flagged,
		Source:     SourceManual,
	}
	if adminUUID, err := uuid.Parse(adminID); err == nil {
		row.CreatedBy = &adminUUID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PunchResponse{}, apperror.Storage(err)
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, row); err != nil {
		log.Error("manual punch persist failed", zap.Error(err))
		return PunchResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return PunchResponse{}, apperror.Storage(err)
	}

	s.audit.Log(ctx, audit.Entry{
		Action:  "PUNCH_MANUAL_CREATE",
		ActorID: adminID,
		Message: "manual punch recorded",
		Meta: map[string]any{
			"punch_id":    row.ID.String(),
			"employee_id": req.EmployeeID,
			"punch_type":  row.PunchType,
			"timestamp":   row.Timestamp.Format(time.RFC3339),
		},
	})
	s.publish(ctx, events.EventPunchRecorded, *row, adminID)

	row.Employee = &EmployeeRef{ID: empl.ID, FullName: empl.FullName, IsAdmin: empl.IsAdmin}
	return mapToResponse(*row), nil
}

// Update edits timestamp, type or flag. Fields left nil are untouched.
func (s *service) Update(ctx context.Context, actorID, id string, req UpdatePunchRequest) (PunchResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	if _, err := uuid.Parse(id); err != nil {
		return PunchResponse{}, puncherrors.ErrInvalidPunchID
	}
	if req.PunchType != nil {
		t := strings.ToLower(strings.TrimSpace(*req.PunchType))
		if !ValidType(t) {
			return PunchResponse{}, puncherrors.ErrInvalidPunchType
		}
		req.PunchType = &t
	}
	if req.Timestamp != nil && req.Timestamp.IsZero() {
		return PunchResponse{}, puncherrors.ErrTimestampRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PunchResponse{}, apperror.Storage(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := qtx.FindByID(ctx, id)
	if err != nil {
		return PunchResponse{}, mapRepositoryError(err)
	}

	before := *row
	if req.Timestamp != nil {
		row.Timestamp = *req.Timestamp
	}
	if req.PunchType != nil {
		row.PunchType = *req.PunchType
	}
	if req.Flagged != nil {
		row.Flagged = *req.Flagged
	}

	if err := qtx.Update(ctx, row); err != nil {
		log.Error("update punch persist failed", zap.String("punch_id", id), zap.Error(err))
		return PunchResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return PunchResponse{}, apperror.Storage(err)
	}

	s.audit.Log(ctx, audit.Entry{
		Action:  "PUNCH_UPDATE",
		ActorID: actorID,
		Message: "punch edited",
		Meta: map[string]any{
			"punch_id":         id,
			"employee_id":      row.EmployeeID.String(),
			"before_type":      before.PunchType,
			"after_type":       row.PunchType,
			"before_timestamp": before.Timestamp.Format(time.RFC3339),
			"after_timestamp":  row.Timestamp.Format(time.RFC3339),
			"before_flagged":   before.Flagged,
			"after_flagged":    row.Flagged,
		},
	})
	s.publish(ctx, events.EventPunchUpdated, *row, actorID)

	return mapToResponse(*row), nil
}

// Delete permanently removes a punch. It reports false when nothing matched.
func (s *service) Delete(ctx context.Context, actorID, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, puncherrors.ErrInvalidPunchID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, apperror.Storage(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, apperror.Storage(err)
	}

	deleted, err := qtx.Delete(ctx, id)
	if err != nil {
		return false, apperror.Storage(err)
	}
	if err := tx.Commit(); err != nil {
		return false, apperror.Storage(err)
	}
	if !deleted {
		return false, nil
	}

	// the row is gone, so the audit entry is the only record of it
	s.audit.Log(ctx, audit.Entry{
		Action:  "PUNCH_DELETE",
		ActorID: actorID,
		Message: "punch deleted",
		Meta: map[string]any{
			"punch_id":    id,
			"employee_id": row.EmployeeID.String(),
			"punch_type":  row.PunchType,
			"timestamp":   row.Timestamp.Format(time.RFC3339),
			"flagged":     row.Flagged,
			"source":      row.Source,
		},
	})
	s.publish(ctx, events.EventPunchDeleted, *row, actorID)

	return true, nil
}

func (s *service) GetByID(ctx context.Context, id string) (PunchResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PunchResponse{}, puncherrors.ErrInvalidPunchID
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return PunchResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*row), nil
}

func (s *service) ListByEmployee(ctx context.Context, employeeID string, rng Range) ([]PunchResponse, error) {
	if err := validateRange(rng); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}
	rows, err := s.repo.ListByEmployee(ctx, employeeID, rng)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return mapToListResponse(rows), nil
}

func (s *service) ListAll(ctx context.Context, rng Range) ([]PunchResponse, error) {
	if err := validateRange(rng); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListAll(ctx, rng)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return mapToListResponse(rows), nil
}

func (s *service) LastPunchFor(ctx context.Context, employeeID string) (*PunchResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}
	row, err := s.repo.Last(ctx, employeeID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	if row == nil {
		return nil, nil
	}
	resp := mapToResponse(*row)
	return &resp, nil
}

// Status reports whether a non-admin employee is clocked in, meaning their
// most recent punch is an "in". Admins are never reported as clocked in.
func (s *service) Status(ctx context.Context, employeeID string) (StatusResponse, error) {
	empl, err := s.employees.Lookup(ctx, employeeID)
	if err != nil {
		return StatusResponse{}, err
	}
	last, err := s.LastPunchFor(ctx, employeeID)
	if err != nil {
		return StatusResponse{}, err
	}
	return StatusResponse{
		EmployeeID: employeeID,
		ClockedIn:  !empl.IsAdmin && last != nil && last.PunchType == TypeIn,
		LastPunch:  last,
	}, nil
}

func (s *service) DaySummary(ctx context.Context, employeeID, date string) (timecalc.DaySummary, error) {
	now := s.clock.Now()
	day, err := parseDate(date, now)
	if err != nil {
		return timecalc.DaySummary{}, err
	}
	from, to := timecalc.DayBounds(day)
	entries, err := s.entries(ctx, employeeID, Range{From: from, To: to})
	if err != nil {
		return timecalc.DaySummary{}, err
	}
	return timecalc.Day(entries, day, now), nil
}

func (s *service) WeekSummary(ctx context.Context, employeeID, weekStart string) (timecalc.WeekSummary, error) {
	now := s.clock.Now()
	start, err := parseDate(weekStart, now)
	if err != nil {
		return timecalc.WeekSummary{}, err
	}
	if weekStart == "" {
		// default to the Monday of the current week
		offset := (int(start.Weekday()) + 6) % 7
		start = start.AddDate(0, 0, -offset)
	}
	from, to := timecalc.WeekBounds(start)
	entries, err := s.entries(ctx, employeeID, Range{From: from, To: to})
	if err != nil {
		return timecalc.WeekSummary{}, err
	}
	return timecalc.Week(entries, start, now), nil
}

func (s *service) entries(ctx context.Context, employeeID string, rng Range) ([]timecalc.Entry, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}
	rows, err := s.repo.ListByEmployee(ctx, employeeID, rng)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return ToEntries(rows), nil
}

func (s *service) activeEmployee(ctx context.Context, employeeID string) (*employee.Employee, error) {
	empl, err := s.employees.Lookup(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !empl.IsActive {
		return nil, employeeerrors.ErrEmployeeInactive
	}
	return empl, nil
}

// publish is best-effort: the ledger write has already committed.
func (s *service) publish(ctx context.Context, eventType string, row Punch, actorID string) {
	event := events.PunchEvent{
		EventType:  eventType,
		PunchID:    row.ID.String(),
		EmployeeID: row.EmployeeID.String(),
		PunchType:  row.PunchType,
		Timestamp:  row.Timestamp,
		Flagged:    row.Flagged,
		Source:     row.Source,
		ActorID:    actorID,
		OccurredAt: s.clock.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		contextutil.GetLogger(ctx, s.logger).Warn("punch event not queued",
			zap.String("event_type", eventType),
			zap.String("punch_id", event.PunchID),
			zap.Error(err),
		)
	}
}

// ToEntries converts ledger rows into time reconstruction input.
func ToEntries(rows []Punch) []timecalc.Entry {
	entries := make([]timecalc.Entry, len(rows))
	for i, r := range rows {
		entries[i] = timecalc.Entry{Kind: r.PunchType, At: r.Timestamp}
	}
	return entries
}

func lockKey(employeeID uuid.UUID, punchType string) string {
	return fmt.Sprintf("punch:%s:%s", employeeID, punchType)
}

func coordinates(lat, lon *float64) (*geofence.Coordinates, error) {
	if lat == nil && lon == nil {
		return nil, nil
	}
	if lat == nil || lon == nil {
		return nil, puncherrors.ErrIncompleteLocation
	}
	return &geofence.Coordinates{Latitude: *lat, Longitude: *lon}, nil
}

func parseDate(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return now, nil
	}
	d, err := time.ParseInLocation(time.DateOnly, value, now.Location())
	if err != nil {
		return time.Time{}, puncherrors.ErrInvalidDate
	}
	return d, nil
}

func validateRange(rng Range) error {
	if !rng.From.IsZero() && !rng.To.IsZero() && !rng.From.Before(rng.To) {
		return puncherrors.ErrInvalidRange
	}
	return nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return puncherrors.ErrPunchNotFound
	}
	return apperror.Storage(err)
}

func mapToResponse(p Punch) PunchResponse {
	resp := PunchResponse{
		ID:         p.ID.String(),
		EmployeeID: p.EmployeeID.String(),
		PunchType:  p.PunchType,
		Timestamp:  p.Timestamp,
		Latitude:   p.Latitude,
		Longitude:  p.Longitude,
		IPAddress:  p.IPAddress,
		Flagged:    p.Flagged,
		Source:     p.Source,
	}
	if p.Employee != nil {
		resp.EmployeeName = p.Employee.FullName
	}
	if p.CreatedBy != nil {
		resp.CreatedBy = p.CreatedBy.String()
	}
	return resp
}

func mapToListResponse(rows []Punch) []PunchResponse {
	res := make([]PunchResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res
}
