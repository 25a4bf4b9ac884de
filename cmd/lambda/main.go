package main

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/Yitzhakza/electic/internal/bootstrap"
	"github.com/Yitzhakza/electic/internal/infrastructure/config"
	"github.com/Yitzhakza/electic/internal/infrastructure/logger"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: "json",
		Fields: map[string]string{"service": cfg.App.Name, "env": cfg.App.Env, "runtime": "lambda"},
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	// Built once per execution environment and reused across invocations.
	app, err := bootstrap.New(context.Background(), cfg, log, version)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = app.Close(ctx)
	}()

	h := NewHandler(app.Engine, app.CouponSync, app.Sweeper, cfg.Sync.StaleAfter, log)
	lambda.StartWithOptions(h.Handle, lambda.WithEnableSIGTERM(func() {
		log.Info("Execution environment shutting down")
		_ = logger.Sync(log)
	}))
}
