package punch

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-timeclock/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=punch_repo.go -destination=mock/punch_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Punch) error
	Update(ctx context.Context, p *Punch) error
	Delete(ctx context.Context, id string) (bool, error)
	FindByID(ctx context.Context, id string) (*Punch, error)
	ExistsSince(ctx context.Context, employeeID uuid.UUID, punchType string, since time.Time) (bool, error)
	ListByEmployee(ctx context.Context, employeeID string, rng Range) ([]Punch, error)
	ListAll(ctx context.Context, rng Range) ([]Punch, error)
	Last(ctx context.Context, employeeID string) (*Punch, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.Session(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, p *Punch) error {
	return r.conn(ctx).Omit("Employee").Create(p).Error
}

func (r *repository) Update(ctx context.Context, p *Punch) error {
	return r.conn(ctx).Omit("Employee").Save(p).Error
}

func (r *repository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.conn(ctx).Delete(&Punch{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*Punch, error) {
	var p Punch
	err := r.conn(ctx).
		Preload("Employee").
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ExistsSince reports whether the employee has a punch of punchType at or
// after since.
func (r *repository) ExistsSince(ctx context.Context, employeeID uuid.UUID, punchType string, since time.Time) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Punch{}).
		Where("employee_id = ? AND punch_type = ? AND punched_at >= ?", employeeID, punchType, since).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListByEmployee(ctx context.Context, employeeID string, rng Range) ([]Punch, error) {
	var rows []Punch
	err := r.conn(ctx).
		Preload("Employee").
		Scopes(withinRange(rng)).
		Where("employee_id = ?", employeeID).
		Order("punched_at DESC, created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListAll(ctx context.Context, rng Range) ([]Punch, error) {
	var rows []Punch
	err := r.conn(ctx).
		Preload("Employee").
		Scopes(withinRange(rng)).
		Order("punched_at DESC, created_at DESC").
		Find(&rows).Error
	return rows, err
}

// Last returns the most recent punch by timestamp, or nil when there is none.
func (r *repository) Last(ctx context.Context, employeeID string) (*Punch, error) {
	var p Punch
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Order("punched_at DESC, created_at DESC").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func withinRange(rng Range) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !rng.From.IsZero() {
			db = db.Where("punched_at >= ?", rng.From)
		}
		if !rng.To.IsZero() {
			db = db.Where("punched_at < ?", rng.To)
		}
		return db
	}
}
