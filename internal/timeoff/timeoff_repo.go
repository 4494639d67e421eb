package timeoff

import (
	"context"
	"database/sql"
	"time"

	"go-timeclock/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=timeoff_repo.go -destination=mock/timeoff_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *Request) error
	FindByID(ctx context.Context, id string) (*Request, error)
	FindAll(ctx context.Context, status string) ([]Request, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]Request, error)
	FindOverlapping(ctx context.Context, start, end time.Time) ([]Request, error)
	MarkProcessed(ctx context.Context, r *Request) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
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

func (r *repository) Create(ctx context.Context, req *Request) error {
	return r.conn(ctx).Omit("Employee").Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Request, error) {
	var req Request
	err := r.conn(ctx).
		Preload("Employee").
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) FindAll(ctx context.Context, status string) ([]Request, error) {
	var rows []Request
	db := r.conn(ctx).Preload("Employee")
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Order("request_date DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]Request, error) {
	var rows []Request
	err := r.conn(ctx).
		Preload("Employee").
		Where("employee_id = ?", employeeID).
		Order("request_date DESC").
		Find(&rows).Error
	return rows, err
}

// FindOverlapping returns requests whose [start_date, end_date] intersects
// [start, end], bounds inclusive.
func (r *repository) FindOverlapping(ctx context.Context, start, end time.Time) ([]Request, error) {
	var rows []Request
	err := r.conn(ctx).
		Preload("Employee").
		Where("start_date <= ? AND end_date >= ?", end, start).
		Order("start_date ASC").
		Find(&rows).Error
	return rows, err
}

// MarkProcessed moves a pending request to its decided status in a single
// statement. It reports false if the request was no longer pending.
func (r *repository) MarkProcessed(ctx context.Context, req *Request) (bool, error) {
	res := r.conn(ctx).
		Model(&Request{}).
		Where("id = ? AND status = ?", req.ID, StatusPending).
		Updates(map[string]any{
			"status":         req.Status,
			"admin_response": req.AdminResponse,
			"processed_date": req.ProcessedDate,
			"processed_by":   req.ProcessedBy,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.conn(ctx).Delete(&Request{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Request{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
