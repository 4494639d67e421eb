package settings

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=settings_repo.go -destination=mock/settings_repo_mock.go -package=mock
type Repository interface {
	Get(ctx context.Context) (*CompanySettings, error)
	Save(ctx context.Context, s *CompanySettings) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Get returns the settings row, creating it with defaults on first use.
func (r *repository) Get(ctx context.Context) (*CompanySettings, error) {
	s := CompanySettings{ID: singletonID}
	err := r.db.WithContext(ctx).
		Where(CompanySettings{ID: singletonID}).
		Attrs(CompanySettings{GeofenceRadiusMeters: 100}).
		FirstOrCreate(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Save(ctx context.Context, s *CompanySettings) error {
	s.ID = singletonID
	return r.db.WithContext(ctx).Save(s).Error
}
