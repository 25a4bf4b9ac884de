// Package bootstrap builds the service graph shared by the server and the
// Lambda entry point: database, repositories, marketplace client, sync
// engine, coupon sync and the catalog services.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	catalogapp "github.com/Yitzhakza/electic/internal/application/catalog"
	"github.com/Yitzhakza/electic/internal/application/catalogsync"
	"github.com/Yitzhakza/electic/internal/domain/classifier"
	"github.com/Yitzhakza/electic/internal/infrastructure/cache"
	"github.com/Yitzhakza/electic/internal/infrastructure/config"
	"github.com/Yitzhakza/electic/internal/infrastructure/ecommerce"
	"github.com/Yitzhakza/electic/internal/infrastructure/logger"
	"github.com/Yitzhakza/electic/internal/infrastructure/persistence"
	"github.com/Yitzhakza/electic/internal/infrastructure/scheduler"
	"github.com/Yitzhakza/electic/internal/infrastructure/telemetry"
)

const instrumentationName = "github.com/Yitzhakza/electic"

// App holds the wired components
type App struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *persistence.Database

	Engine     *catalogsync.Engine
	CouponSync *catalogsync.CouponSync
	Sweeper    *catalogsync.StaleRunSweeper

	Products *catalogapp.ProductService
	Queries  *catalogapp.QueryService
	History  *catalogapp.SyncHistoryService

	Prometheus *telemetry.PrometheusRegistry

	telemetry *telemetry.Provider
}

// New connects to the database and wires every component. Close releases
// what New opened, including on the error path.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, version string) (app *App, err error) {
	app = &App{Config: cfg, Logger: log}
	defer func() {
		if err != nil {
			_ = app.Close(context.WithoutCancel(ctx))
			app = nil
		}
	}()

	app.telemetry, err = telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
	}, log)
	if err != nil {
		return app, fmt.Errorf("telemetry: %w", err)
	}
	syncMetrics, err := telemetry.NewSyncMetrics(telemetry.SyncMetricsConfig{
		Meter:  app.telemetry.Meter(instrumentationName),
		Logger: log,
	})
	if err != nil {
		return app, fmt.Errorf("sync metrics: %w", err)
	}
	app.Prometheus = telemetry.NewPrometheusRegistry()

	marketplace, err := newMarketplace(cfg.AliExpress, app.Prometheus, app.telemetry, log)
	if err != nil {
		return app, err
	}
	normalizer := ecommerce.NewAliExpressNormalizer(log)

	gormLog := logger.NewSQLLogger(log, logger.GormLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)
	app.DB, err = persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		return app, fmt.Errorf("database: %w", err)
	}
	log.Info("Database connected successfully")

	brandRepo := persistence.NewGormBrandRepository(app.DB.DB)
	categoryRepo := persistence.NewGormCategoryRepository(app.DB.DB)
	queryRepo := persistence.NewGormSearchQueryRepository(app.DB.DB)
	productRepo := persistence.NewGormProductRepository(app.DB.DB)
	overrideRepo := persistence.NewGormProductOverrideRepository(app.DB.DB)
	couponRepo := persistence.NewGormPlatformCouponRepository(app.DB.DB)
	runRepo := persistence.NewGormSyncRunRepository(app.DB.DB)
	logRepo := persistence.NewGormSyncLogRepository(app.DB.DB)

	locker, err := cache.NewLockerFactory(cfg.Sync.LockBackend, cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).Create(ctx)
	if err != nil {
		return app, err
	}
	reference := cache.NewReferenceCache(brandRepo, categoryRepo, cfg.Sync.ReferenceCacheTTL, log)

	engineCfg := catalogsync.DefaultEngineConfig()
	engineCfg.ShipToCountry = cfg.AliExpress.ShipToCountry
	engineCfg.LockTTL = cfg.Sync.LockTTL
	engineCfg.DeactivateMissingAfter = cfg.Sync.DeactivateMissingAfter

	app.Engine = catalogsync.NewEngine(
		marketplace,
		normalizer,
		classifier.Default(),
		reference,
		catalogsync.Repositories{
			Queries:  queryRepo,
			Products: productRepo,
			Runs:     runRepo,
			Logs:     logRepo,
		},
		engineCfg,
		catalogsync.WithLocker(locker),
		catalogsync.WithRecorder(syncMetrics),
		catalogsync.WithProgressObserver(app.Prometheus),
		catalogsync.WithLogger(log.Named("sync")),
	)
	app.CouponSync = catalogsync.NewCouponSync(marketplace, normalizer, productRepo, couponRepo, locker, syncMetrics, log.Named("coupon-sync"))
	app.Sweeper = catalogsync.NewStaleRunSweeper(runRepo, logRepo, syncMetrics, log.Named("stale-sweep"))

	app.Products = catalogapp.NewProductService(productRepo, overrideRepo, brandRepo, categoryRepo, log)
	app.Queries = catalogapp.NewQueryService(queryRepo, log)
	app.History = catalogapp.NewSyncHistoryService(runRepo, logRepo, couponRepo)

	return app, nil
}

func newMarketplace(cfg config.AliExpressConfig, observer ecommerce.RequestObserver, tp *telemetry.Provider, log *zap.Logger) (*ecommerce.AliExpressClient, error) {
	clientCfg := ecommerce.NewAliExpressConfig(cfg.AppKey, cfg.AppSecret, cfg.TrackingID)
	clientCfg.APIBaseURL = cfg.APIBaseURL
	clientCfg.TimeoutSeconds = cfg.TimeoutSeconds
	clientCfg.ShipToCountry = cfg.ShipToCountry
	clientCfg.TargetCurrency = cfg.TargetCurrency
	clientCfg.TargetLanguage = cfg.TargetLanguage
	clientCfg.MinRequestInterval = cfg.MinRequestInterval

	client, err := ecommerce.NewAliExpressClient(clientCfg,
		ecommerce.WithThrottle(ecommerce.NewThrottle(cfg.MinRequestInterval)),
		ecommerce.WithLogger(log.Named("aliexpress")),
		ecommerce.WithRequestObserver(observer),
		ecommerce.WithTracer(tp.Tracer(instrumentationName+"/ecommerce")),
	)
	if err != nil {
		return nil, fmt.Errorf("aliexpress client: %w", err)
	}
	return client, nil
}

// Scheduler registers the catalog sync, coupon sync and stale-run sweep
// triggers. The caller starts and stops it.
func (a *App) Scheduler(ctx context.Context) (*scheduler.Scheduler, error) {
	log := a.Logger.Named("scheduler")
	s := scheduler.NewScheduler(log)

	jobs := []struct {
		cfg scheduler.IntervalTriggerConfig
		job scheduler.JobFunc
	}{
		{
			cfg: scheduler.IntervalTriggerConfig{Name: scheduler.JobCatalogSync, Interval: a.Config.Sync.Interval, Timeout: a.Config.Sync.LockTTL},
			job: scheduler.SyncJob(a.Engine, log),
		},
		{
			cfg: scheduler.IntervalTriggerConfig{Name: scheduler.JobCouponSync, Interval: a.Config.Sync.CouponInterval, Timeout: a.Config.Sync.LockTTL},
			job: scheduler.CouponSyncJob(a.CouponSync, log),
		},
		{
			cfg: scheduler.IntervalTriggerConfig{Name: scheduler.JobStaleSweep, Interval: a.Config.Sync.SweepInterval, RunOnStart: true},
			job: scheduler.StaleSweepJob(a.Sweeper, a.Config.Sync.StaleAfter),
		},
	}
	for _, j := range jobs {
		trigger, err := scheduler.NewIntervalTrigger(j.cfg, j.job, log)
		if err != nil {
			return nil, err
		}
		if err := s.Register(ctx, trigger); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Close flushes telemetry and closes the database
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.telemetry != nil {
		if err := a.telemetry.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	}
	return errors.Join(errs...)
}
