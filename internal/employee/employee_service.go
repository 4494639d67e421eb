package employee

import (
	"context"
	"database/sql"
	"regexp"
	"strings"

	employeeerrors "go-timeclock/internal/employee/errors"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var pinPattern = regexp.MustCompile(`^\d{4,8}$`)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	Lookup(ctx context.Context, id string) (*Employee, error)
	CountActive(ctx context.Context) (int64, error)
	FindActiveByPIN(ctx context.Context, pin string) (*Employee, error)
	EnsureAdmin(ctx context.Context, fullName, pin string) error
}

type service struct {
	db       *sql.DB
	repo     Repository
	hashCost int
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{db: db, repo: repo, hashCost: bcrypt.DefaultCost, logger: l}
}

// ValidatePIN enforces the kiosk PIN format.
func ValidatePIN(pin string) error {
	if !pinPattern.MatchString(pin) {
		return employeeerrors.ErrInvalidPIN
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("full_name", req.FullName),
		zap.Bool("is_admin", req.IsAdmin),
	)

	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		return EmployeeResponse{}, employeeerrors.ErrFullNameRequired
	}
	if err := ValidatePIN(req.PIN); err != nil {
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, apperror.Storage(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	inUse, err := s.pinInUse(ctx, qtx, req.PIN, uuid.Nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	if inUse {
		s.logger.Warn("create employee pin collision", zap.String("request_id", rid))
		return EmployeeResponse{}, employeeerrors.ErrPINAlreadyInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), s.hashCost)
	if err != nil {
		return EmployeeResponse{}, err
	}

	empl := &Employee{
		ID:       uuid.New(),
		FullName: req.FullName,
		Email:    optionalString(req.Email),
		Phone:    req.Phone,
		JobTitle: req.JobTitle,
		PinHash:  string(hash),
		IsAdmin:  req.IsAdmin,
		IsActive: true,
	}
	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, apperror.Storage(err)
	}

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
	)
	return mapToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("update employee requested", zap.String("employee_id", id))

	employeeID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	if req.PIN != nil {
		if err := ValidatePIN(*req.PIN); err != nil {
			return EmployeeResponse{}, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, apperror.Storage(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return EmployeeResponse{}, employeeerrors.ErrFullNameRequired
		}
		empl.FullName = name
	}
	if req.Email != nil {
		empl.Email = optionalString(*req.Email)
	}
	if req.Phone != nil {
		empl.Phone = *req.Phone
	}
	if req.JobTitle != nil {
		empl.JobTitle = *req.JobTitle
	}
	if req.IsAdmin != nil {
		empl.IsAdmin = *req.IsAdmin
	}
	reactivating := req.IsActive != nil && *req.IsActive && !empl.IsActive
	if reactivating && req.PIN == nil {
		// a stored hash cannot be compared with other hashes, so uniqueness
		// among active employees is re-established with a fresh PIN
		return EmployeeResponse{}, employeeerrors.ErrPINRequired
	}
	if req.IsActive != nil {
		empl.IsActive = *req.IsActive
	}

	if req.PIN != nil {
		if empl.IsActive {
			inUse, err := s.pinInUse(ctx, qtx, *req.PIN, employeeID)
			if err != nil {
				return EmployeeResponse{}, err
			}
			if inUse {
				return EmployeeResponse{}, employeeerrors.ErrPINAlreadyInUse
			}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.PIN), s.hashCost)
		if err != nil {
			return EmployeeResponse{}, err
		}
		empl.PinHash = string(hash)
	}

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, apperror.Storage(err)
	}

	s.logger.Info("update employee success", zap.String("employee_id", id))
	return mapToResponse(*empl), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	empl, err := s.Lookup(ctx, id)
	if err != nil {
		return EmployeeResponse{}, err
	}
	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(rows), nil
}

// Lookup returns the directory entry for id, active or not.
func (s *service) Lookup(ctx context.Context, id string) (*Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}
	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return empl, nil
}

func (s *service) CountActive(ctx context.Context) (int64, error) {
	count, err := s.repo.CountActive(ctx)
	if err != nil {
		return 0, mapRepositoryError(err)
	}
	return count, nil
}

// FindActiveByPIN returns the active employee whose PIN matches. PINs are
// stored as bcrypt hashes so every active hash is compared.
func (s *service) FindActiveByPIN(ctx context.Context, pin string) (*Employee, error) {
	if err := ValidatePIN(pin); err != nil {
		return nil, err
	}
	rows, err := s.repo.FindAllActive(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	for i := range rows {
		if bcrypt.CompareHashAndPassword([]byte(rows[i].PinHash), []byte(pin)) == nil {
			return &rows[i], nil
		}
	}
	return nil, employeeerrors.ErrEmployeeNotFound
}

// EnsureAdmin creates the first administrator when the directory is empty.
func (s *service) EnsureAdmin(ctx context.Context, fullName, pin string) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return mapRepositoryError(err)
	}
	if count > 0 {
		return nil
	}
	_, err = s.Create(ctx, CreateEmployeeRequest{FullName: fullName, PIN: pin, IsAdmin: true})
	if err == nil {
		s.logger.Info("seeded initial administrator")
	}
	return err
}

// pinInUse reports whether another active employee already owns pin.
func (s *service) pinInUse(ctx context.Context, repo Repository, pin string, exclude uuid.UUID) (bool, error) {
	rows, err := repo.FindAllActive(ctx)
	if err != nil {
		return false, mapRepositoryError(err)
	}
	for _, row := range rows {
		if row.ID == exclude {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(row.PinHash), []byte(pin)) == nil {
			return true, nil
		}
	}
	return false, nil
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:       e.ID.String(),
		FullName: e.FullName,
		Phone:    e.Phone,
		JobTitle: e.JobTitle,
		IsAdmin:  e.IsAdmin,
		IsActive: e.IsActive,
	}
	if e.Email != nil {
		resp.Email = *e.Email
	}
	return resp
}

func mapToListResponse(rows []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res
}
