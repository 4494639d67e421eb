package settings

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-timeclock/internal/geofence"
	settingserrors "go-timeclock/internal/settings/errors"
	"go-timeclock/internal/shared/apperror"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	GeofenceCacheKey   = "settings:geofence"
	GeofenceVersionKey = "settings:geofence:version"
	geofenceCacheTTL   = 5 * time.Minute
	geofenceLoadWait   = 5 * time.Second
)

// fillScript writes the cache only while the version still matches the one
// read before the database load, so a fill that raced an update is dropped.
var fillScript = redis.NewScript(`
local current = redis.call("GET", KEYS[2]) or "0"
if current == ARGV[2] then
	redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[3])
	return 1
end
return 0
`)

//go:generate mockgen -source=settings_service.go -destination=mock/settings_service_mock.go -package=mock
type Service interface {
	Get(ctx context.Context) (SettingsResponse, error)
	Update(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)
	GetGeofence(ctx context.Context) (geofence.Config, error)
	UpdateGeofence(ctx context.Context, req UpdateGeofenceRequest) (GeofenceResponse, error)
}

type service struct {
	repo   Repository
	rdb    redis.Cmdable
	sf     *singleflight.Group
	logger *zap.Logger
}

// NewService builds the settings service. rdb may be nil, which disables caching.
func NewService(repo Repository, rdb redis.Cmdable, logger ...*zap.Logger) Service {
	l := zap.L().Named("settings.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("settings.service")
	}
	return &service{repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) Get(ctx context.Context) (SettingsResponse, error) {
	row, err := s.repo.Get(ctx)
	if err != nil {
		return SettingsResponse{}, apperror.Storage(err)
	}
	return mapToResponse(*row), nil
}

func (s *service) Update(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error) {
	row, err := s.repo.Get(ctx)
	if err != nil {
		return SettingsResponse{}, apperror.Storage(err)
	}
	row.CompanyName = req.CompanyName
	if err := s.repo.Save(ctx, row); err != nil {
		return SettingsResponse{}, apperror.Storage(err)
	}
	return mapToResponse(*row), nil
}

// GetGeofence is read on every punch, so it is served from redis when
// possible and concurrent misses share one database read.
func (s *service) GetGeofence(ctx context.Context) (geofence.Config, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, GeofenceCacheKey).Result()
		if err == nil {
			var cfg geofence.Config
			if err := json.Unmarshal([]byte(cached), &cfg); err == nil {
				return cfg, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("geofence cache read failed", zap.Error(err))
		}
	}

	// detached from the first caller so its cancellation does not fail the other waiters
	v, err, _ := s.sf.Do(GeofenceCacheKey, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), geofenceLoadWait)
		defer cancel()
		return s.loadGeofence(loadCtx)
	})
	if err != nil {
		s.logger.Error("load geofence settings failed", zap.Error(err))
		return geofence.Config{}, apperror.Storage(err)
	}

	return v.(geofence.Config), nil
}

func (s *service) loadGeofence(ctx context.Context) (geofence.Config, error) {
	version := ""
	if s.rdb != nil {
		v, err := s.rdb.Get(ctx, GeofenceVersionKey).Result()
		switch {
		case err == nil:
			version = v
		case errors.Is(err, redis.Nil):
			version = "0"
		default:
			s.logger.Warn("geofence cache version read failed", zap.Error(err))
		}
	}

	row, err := s.repo.Get(ctx)
	if err != nil {
		return geofence.Config{}, err
	}
	cfg := toGeofenceConfig(*row)

	if version != "" {
		payload, err := json.Marshal(cfg)
		if err == nil {
			keys := []string{GeofenceCacheKey, GeofenceVersionKey}
			if err := fillScript.Run(ctx, s.rdb, keys, string(payload), version, geofenceCacheTTL.Milliseconds()).Err(); err != nil {
				s.logger.Warn("geofence cache write failed", zap.Error(err))
			}
		}
	}
	return cfg, nil
}

func (s *service) UpdateGeofence(ctx context.Context, req UpdateGeofenceRequest) (GeofenceResponse, error) {
	row, err := s.repo.Get(ctx)
	if err != nil {
		return GeofenceResponse{}, apperror.Storage(err)
	}

	if req.Latitude != nil {
		row.GeofenceLatitude = *req.Latitude
	}
	if req.Longitude != nil {
		row.GeofenceLongitude = *req.Longitude
	}
	if req.RadiusMeters != nil {
		row.GeofenceRadiusMeters = *req.RadiusMeters
	}
	row.GeofenceEnabled = req.Enabled

	if err := validateGeofence(*row, req); err != nil {
		return GeofenceResponse{}, err
	}

	if err := s.repo.Save(ctx, row); err != nil {
		s.logger.Error("save geofence settings failed", zap.Error(err))
		return GeofenceResponse{}, apperror.Storage(err)
	}

	// version bump must precede the delete
	if s.rdb != nil {
		if err := s.rdb.Incr(ctx, GeofenceVersionKey).Err(); err != nil {
			s.logger.Error("failed to bump geofence cache version", zap.Error(err))
		}
		if err := s.rdb.Del(ctx, GeofenceCacheKey).Err(); err != nil {
			s.logger.Error("failed to invalidate geofence cache", zap.Error(err))
		}
	}

	s.logger.Info("geofence settings updated",
		zap.Bool("enabled", row.GeofenceEnabled),
		zap.Float64("radius_meters", row.GeofenceRadiusMeters),
	)
	return mapToResponse(*row).Geofence, nil
}

func validateGeofence(row CompanySettings, req UpdateGeofenceRequest) error {
	if row.GeofenceLatitude < -90 || row.GeofenceLatitude > 90 {
		return settingserrors.ErrInvalidLatitude
	}
	if row.GeofenceLongitude < -180 || row.GeofenceLongitude > 180 {
		return settingserrors.ErrInvalidLongitude
	}
	if !row.GeofenceEnabled {
		return nil
	}
	if row.GeofenceRadiusMeters <= 0 {
		return settingserrors.ErrInvalidRadius
	}
	// 0,0 is the unset center
	if row.GeofenceLatitude == 0 && row.GeofenceLongitude == 0 && (req.Latitude == nil || req.Longitude == nil) {
		return settingserrors.ErrCenterRequired
	}
	return nil
}

func toGeofenceConfig(row CompanySettings) geofence.Config {
	return geofence.Config{
		Enabled:      row.GeofenceEnabled,
		Latitude:     row.GeofenceLatitude,
		Longitude:    row.GeofenceLongitude,
		RadiusMeters: row.GeofenceRadiusMeters,
	}
}

func mapToResponse(row CompanySettings) SettingsResponse {
	return SettingsResponse{
		CompanyName: row.CompanyName,
		Geofence: GeofenceResponse{
			Enabled:      row.GeofenceEnabled,
			Latitude:     row.GeofenceLatitude,
			Longitude:    row.GeofenceLongitude,
			RadiusMeters: row.GeofenceRadiusMeters,
		},
	}
}
