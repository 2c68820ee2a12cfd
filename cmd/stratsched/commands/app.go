package commands

import (
	"context"
	"fmt"

	"github.com/wonny/strategy-scheduler/internal/balancer"
	"github.com/wonny/strategy-scheduler/internal/contracts"
	"github.com/wonny/strategy-scheduler/internal/registry"
	"github.com/wonny/strategy-scheduler/internal/schedule"
	"github.com/wonny/strategy-scheduler/internal/scheduler"
	"github.com/wonny/strategy-scheduler/internal/scheduler/jobs"
	"github.com/wonny/strategy-scheduler/internal/weights"
	"github.com/wonny/strategy-scheduler/pkg/config"
	"github.com/wonny/strategy-scheduler/pkg/database"
	"github.com/wonny/strategy-scheduler/pkg/logger"
	"github.com/wonny/strategy-scheduler/pkg/redis"
)

// app holds the wired dependencies shared by every command
// ⭐ SSOT: 의존성 조립은 여기서만
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *database.DB
	redis    *redis.Client
	registry *registry.Repository
	weights  *weights.CachedSource
	service  *schedule.Service
}

// loadConfig loads config and applies global flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if env != "" {
		cfg.Env = env
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, nil
}

func newApp(ctx context.Context) (*app, error) {
	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to database
	db, err := database.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// 4. Connect to redis (no-op client when disabled)
	rdb, err := redis.New(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	// 5. Weight sources: ticker counts, file overrides on top, cached
	reg := registry.NewRepository(db.Pool)

	var source contracts.WeightSource = weights.NewRegistrySource(reg)
	if cfg.Weights.OverridesFile != "" {
		overrides, err := weights.LoadFile(cfg.Weights.OverridesFile)
		if err != nil {
			rdb.Close()
			db.Close()
			return nil, fmt.Errorf("load weight overrides: %w", err)
		}
		source = weights.Overlay{Base: source, Overrides: overrides}
		log.WithField("path", overrides.Path()).Info("Loaded weight overrides")
	}

	cached := weights.NewCachedSource(source, redis.NewCache(rdb), cfg.Weights.CacheTTL, log)

	// 6. Schedule service
	service := schedule.NewService(
		schedule.NewRepository(db.Pool),
		reg,
		cached,
		balancer.New(),
		cfg.Weights.DefaultWeight,
		log,
	)

	return &app{
		cfg:      cfg,
		log:      log,
		db:       db,
		redis:    rdb,
		registry: reg,
		weights:  cached,
		service:  service,
	}, nil
}

func (a *app) close() {
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close redis")
	}
	a.db.Close()
}

// newScheduler registers every scheduled job
func (a *app) newScheduler() (*scheduler.Scheduler, error) {
	sc := a.cfg.Scheduler

	sched := scheduler.New(a.log, scheduler.Options{
		Location:   sc.Location(),
		MaxRetries: sc.MaxRetries,
		RetryDelay: sc.RetryDelay,
		JobTimeout: sc.JobTimeout,
	})

	toAdd := []scheduler.Job{
		jobs.NewWeightCacheRefreshJob(a.weights, sc.CacheRefresh, a.log),
		jobs.NewOnboardingJob(a.service, sc.OnboardingCron, a.log),
		jobs.NewDailyRosterJob(a.service, sc.RosterCron, sc.Location(), a.log),
		jobs.NewLoadReportJob(a.service, sc.LoadReportCron, a.log),
	}

	for _, job := range toAdd {
		if err := sched.AddJob(job); err != nil {
			return nil, fmt.Errorf("add job %s: %w", job.Name(), err)
		}
	}

	return sched, nil
}
