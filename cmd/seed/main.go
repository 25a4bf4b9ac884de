package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Yitzhakza/electic/internal/infrastructure/config"
	"github.com/Yitzhakza/electic/internal/infrastructure/logger"
	"github.com/Yitzhakza/electic/internal/infrastructure/persistence"
)

func main() {
	var (
		withDemo bool
		logLevel string
		timeout  time.Duration
	)

	flag.BoolVar(&withDemo, "demo", false, "Also insert the demo products")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "Abort seeding after this long")
	flag.Parse()

	log, err := logger.ForCLI(logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database,
		logger.NewSQLLogger(log, logger.GormLevel(logLevel)),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := persistence.NewSeeder(db.DB, log).Seed(ctx, withDemo)
	if err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}

	log.Info("Seeding complete",
		zap.Int("brands", result.Brands),
		zap.Int("categories", result.Categories),
		zap.Int("queries", result.Queries),
		zap.Int("products", result.Products),
	)
}
