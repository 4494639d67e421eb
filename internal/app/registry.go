package app

import (
	"database/sql"

	"go-timeclock/internal/auth"
	"go-timeclock/internal/correction"
	"go-timeclock/internal/employee"
	"go-timeclock/internal/messaging/kafka"
	"go-timeclock/internal/middleware"
	"go-timeclock/internal/punch"
	"go-timeclock/internal/rbac"
	"go-timeclock/internal/report"
	"go-timeclock/internal/settings"
	"go-timeclock/internal/shared/audit"
	"go-timeclock/internal/shared/clock"
	"go-timeclock/internal/shared/config"
	"go-timeclock/internal/stats"
	"go-timeclock/internal/timeoff"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type modules struct {
	employees employee.Service
	rbac      rbac.Service
}

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	enforcer *casbin.Enforcer,
	logger *zap.Logger,
) modules {
	clk := clock.New(cfg.Location())
	auditLogger := audit.NewZapLogger(logger)

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	settingsRepo := settings.NewRepository(gormDB)
	punchRepo := punch.NewRepository(gormDB)
	correctionRepo := correction.NewRepository(gormDB)
	timeOffRepo := timeoff.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)
	employeeService := employee.NewService(db, employeeRepo, logger)
	settingsService := settings.NewService(settingsRepo, rdb, logger)
	authService := auth.NewService(employeeService, auth.NewRedisSessionStore(rdb), auth.Options{
		Secret:     []byte(cfg.JWTSecret),
		SessionTTL: cfg.SessionTTL,
		Clock:      clk,
	}, logger)
	punchService := punch.NewService(db, punchRepo, employeeService, settingsService, punch.Options{
		DedupWindow: cfg.PunchDedupWindow,
		Clock:       clk,
		Locker:      newLocker(cfg, rdb),
		Publisher:   punch.NewOutboxEventPublisher(outboxRepo),
		Audit:       auditLogger,
	}, logger)
	correctionService := correction.NewService(db, correctionRepo, punchService, correction.Options{
		Clock: clk,
		Audit: auditLogger,
	}, logger)
	timeOffService := timeoff.NewService(db, timeOffRepo, timeoff.Options{
		Clock: clk,
		Audit: auditLogger,
	}, logger)
	statsService := stats.NewService(employeeService, punchService, correctionService, timeOffService, clk, logger)
	reportService := report.NewService(employeeService, punchService, clk, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, cfg.IsProduction(), logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	settingsHandler := settings.NewHandler(settingsService, logger)
	punchHandler := punch.NewHandler(punchService, cfg.Location(), logger)
	correctionHandler := correction.NewHandler(correctionService, logger)
	timeOffHandler := timeoff.NewHandler(timeOffService, logger)
	statsHandler := stats.NewHandler(statsService, logger)
	reportHandler := report.NewHandler(reportService, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())

	public := router.Group("/api/v1")
	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware(authService), middleware.ContextLogger(logger))
	{
		auth.RegisterRoutes(public, protected, authHandler)
		employee.RegisterRoutes(protected, employeeHandler, rbacService)
		settings.RegisterRoutes(protected, settingsHandler, rbacService)
		punch.RegisterRoutes(protected, punchHandler, rbacService, rdb)
		correction.RegisterRoutes(protected, correctionHandler, rbacService)
		timeoff.RegisterRoutes(protected, timeOffHandler, rbacService)
		stats.RegisterRoutes(protected, statsHandler, rbacService)
		report.RegisterRoutes(protected, reportHandler, rbacService)
		rbac.RegisterRoutes(protected, rbacHandler, rbacService)
	}

	return modules{employees: employeeService, rbac: rbacService}
}

// newLocker picks the dedup lock backend. The local locker is only correct
// while a single api instance writes punches.
func newLocker(cfg config.Config, rdb redis.Cmdable) punch.Locker {
	if cfg.LockBackend == "redis" && rdb != nil {
		return punch.NewRedisLocker(rdb)
	}
	return punch.NewLocalLocker()
}
