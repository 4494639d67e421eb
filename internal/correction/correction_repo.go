package correction

import (
	"context"
	"database/sql"

	"go-timeclock/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=correction_repo.go -destination=mock/correction_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, c *Correction) error
	FindByID(ctx context.Context, id string) (*Correction, error)
	FindAll(ctx context.Context, status string) ([]Correction, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]Correction, error)
	SaveDecision(ctx context.Context, c *Correction, fromStatus string) (bool, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
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

func (r *repository) Create(ctx context.Context, c *Correction) error {
	return r.conn(ctx).Omit("Employee").Create(c).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Correction, error) {
	var c Correction
	err := r.conn(ctx).
		Preload("Employee").
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) FindAll(ctx context.Context, status string) ([]Correction, error) {
	var rows []Correction
	db := r.conn(ctx).Preload("Employee")
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]Correction, error) {
	var rows []Correction
	err := r.conn(ctx).
		Preload("Employee").
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// SaveDecision writes status and decision fields in one statement, guarded on
// the status the caller read. It reports false when the row moved on.
func (r *repository) SaveDecision(ctx context.Context, c *Correction, fromStatus string) (bool, error) {
	res := r.conn(ctx).
		Model(&Correction{}).
		Where("id = ? AND status = ?", c.ID, fromStatus).
		Updates(map[string]any{
			"status":     c.Status,
			"admin_note": c.AdminNote,
			"decided_by": c.DecidedBy,
			"decided_at": c.DecidedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Correction{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
