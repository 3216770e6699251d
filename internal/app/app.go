package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/config"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/kpi"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/pkg/database"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/repository/memory"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/repository/postgresql"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/repository/sqlite"
	kpiService "github.com/cmlabs-hris/hris-kpi-engine/internal/service/kpi"
)

// App holds the wired services shared by the HTTP server and the CLI.
type App struct {
	Config     *config.Config
	DB         *database.DB
	KpiService kpi.KpiService
	JWTService jwt.Service

	closers []func() error
}

// New connects to PostgreSQL and wires repositories and services.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: int32(cfg.Database.MaxConns),
		MinConns: int32(cfg.Database.MinConns),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	a := &App{Config: cfg, DB: db}
	a.closers = append(a.closers, func() error { db.Close(); return nil })

	cacheRepo, err := a.cacheRepository(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	shiftRepo := postgresql.NewShiftRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	payRuleRepo := postgresql.NewPayRuleRepository(db)
	contractRepo := postgresql.NewContractRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)

	pipeline := kpiService.NewPipeline(kpiService.Ports{
		Shifts:    shiftRepo,
		Holidays:  holidayRepo,
		PayRules:  payRuleRepo,
		Contracts: contractRepo,
		Employees: employeeRepo,
	}, kpiService.Options{
		Location:         cfg.Location(),
		Stacking:         cfg.KPI.RuleStacking,
		AdjustmentMonth:  cfg.KPI.AdjustmentMonth,
		MaxParallelUsers: cfg.KPI.MaxParallelUsers,
		GraceMinutes:     cfg.KPI.GraceMinutes,
		CreditedReasons:  cfg.KPI.CreditedReasons,
	})
	store := kpiService.NewStore(cacheRepo, pipeline, cfg.KPI.ComputeTimeout)

	a.KpiService = kpiService.NewKpiService(store)
	a.JWTService = jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	return a, nil
}

func (a *App) cacheRepository(ctx context.Context) (kpi.CacheRepository, error) {
	switch a.Config.KPI.CacheDriver {
	case config.CacheDriverSQLite:
		repo, err := sqlite.NewKpiCacheRepository(a.Config.KPI.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite cache: %w", err)
		}
		a.closers = append(a.closers, repo.Close)
		slog.Info("Using SQLite KPI cache", "path", a.Config.KPI.SQLitePath)
		return repo, nil
	case config.CacheDriverMemory:
		slog.Warn("Using in-memory KPI cache, entries are lost on restart")
		return memory.NewKpiCacheRepository(), nil
	default:
		if err := postgresql.Migrate(ctx, a.DB); err != nil {
			return nil, fmt.Errorf("migrating kpi cache: %w", err)
		}
		return postgresql.NewKpiCacheRepository(a.DB), nil
	}
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
