package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Yitzhakza/electic/internal/bootstrap"
	"github.com/Yitzhakza/electic/internal/infrastructure/config"
	"github.com/Yitzhakza/electic/internal/infrastructure/logger"
	"github.com/Yitzhakza/electic/internal/interfaces/http/handler"
	"github.com/Yitzhakza/electic/internal/interfaces/http/middleware"
	"github.com/Yitzhakza/electic/internal/interfaces/http/router"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
		Fields: map[string]string{"service": cfg.App.Name, "env": cfg.App.Env},
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting electic",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()
	app, err := bootstrap.New(ctx, cfg, log, version)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := app.Close(closeCtx); err != nil {
			log.Error("Error during cleanup", zap.Error(err))
		}
	}()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}
	engine.Use(logger.Recovery(log), logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName)...)
	engine.Use(
		middleware.HTTPMetrics(app.Prometheus),
		middleware.CORS(cfg.HTTP.CORSAllowOrigins),
		middleware.Secure(),
	)

	var publicLimiter *middleware.RateLimiter
	if cfg.HTTP.PublicRateLimit > 0 {
		publicLimiter = middleware.NewRateLimiter(cfg.HTTP.PublicRateLimit, cfg.HTTP.PublicRateBurst)
	}

	routes := router.API{
		Sync:          handler.NewSyncHandler(app.Engine, app.CouponSync, app.History),
		Queries:       handler.NewQueryHandler(app.Queries),
		Catalog:       handler.NewCatalogHandler(app.Products, app.History),
		System:        handler.NewSystemHandler(cfg.App.Name, version, app.DB),
		Metrics:       app.Prometheus.Handler(),
		CronSecret:    cfg.Cron.Secret,
		AdminToken:    cfg.Admin.Token,
		PublicLimiter: publicLimiter,
		BodyLimit:     cfg.HTTP.MaxBodyBytes,
	}.Mount(engine)
	log.Debug("Routes mounted", zap.Int("count", len(routes)), zap.Strings("routes", routes))

	// Background schedulers
	if cfg.Sync.SchedulerEnabled {
		sched, err := app.Scheduler(ctx)
		if err != nil {
			log.Fatal("Failed to configure scheduler", zap.Error(err))
		}
		if err := sched.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := sched.Stop(stopCtx); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
		log.Info("Scheduler started",
			zap.Duration("sync_interval", cfg.Sync.Interval),
			zap.Duration("coupon_interval", cfg.Sync.CouponInterval),
			zap.Duration("sweep_interval", cfg.Sync.SweepInterval),
		)
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
