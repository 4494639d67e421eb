package app

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-timeclock/internal/correction"
	"go-timeclock/internal/employee"
	"go-timeclock/internal/messaging/kafka"
	"go-timeclock/internal/punch"
	"go-timeclock/internal/rbac"
	"go-timeclock/internal/rbac/infra"
	"go-timeclock/internal/settings"
	"go-timeclock/internal/shared/config"
	"go-timeclock/internal/shared/connection"
	"go-timeclock/internal/timeoff"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Resources holds the connections BuildApp opened so the caller can close
// them on shutdown.
type Resources struct {
	SQL   *sql.DB
	Redis *redis.Client
}

func (r Resources) Close() {
	if r.Redis != nil {
		_ = r.Redis.Close()
	}
	if r.SQL != nil {
		_ = r.SQL.Close()
	}
}

func BuildApp(router *gin.Engine, cfg config.Config) (Resources, error) {
	logger := zap.L().Named("app")

	if cfg.JWTSecret == "" {
		return Resources{}, errors.New("JWT_SECRET is required")
	}

	// 1. Setup Infrastructure
	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, 5)
	if err != nil {
		return Resources{}, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return Resources{}, err
	}
	logger.Info("database connection established")

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		_ = sqlDB.Close()
		return Resources{}, err
	}
	logger.Info("redis connection established")
	res := Resources{SQL: sqlDB, Redis: redisClient}

	if cfg.AutoMigrate {
		if err := migrate(gormDB); err != nil {
			res.Close()
			return Resources{}, err
		}
	}

	enforcer, err := infra.NewEnforcer()
	if err != nil {
		res.Close()
		return Resources{}, err
	}

	// 2. Register Modules & Routes
	mods := registerModules(router, cfg, sqlDB, gormDB, redisClient, enforcer, zap.L())

	// 3. Policy and seed data
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := mods.rbac.LoadPolicy(ctx); err != nil {
		res.Close()
		return Resources{}, err
	}
	if cfg.SeedAdminPIN != "" {
		if err := mods.employees.EnsureAdmin(ctx, cfg.SeedAdminName, cfg.SeedAdminPIN); err != nil {
			res.Close()
			return Resources{}, err
		}
	}

	return res, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&employee.Employee{},
		&punch.Punch{},
		&correction.Correction{},
		&timeoff.Request{},
		&settings.CompanySettings{},
		&rbac.RolePermission{},
		&kafka.OutboxRecord{},
	)
}
