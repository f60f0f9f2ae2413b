// @title                       Course Catalog API
// @version                     1.0
// @description                 Courses CRUD and a user directory behind JWT bearer authentication.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/coursehub/catalog-api/internal/app"
	"github.com/coursehub/catalog-api/internal/pkg/config"
	"github.com/coursehub/catalog-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{Service: "catalog-api"})
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "catalog-api",
		Env:     cfg.Env,
	})

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize application")
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		log.Error().Err(err).Msg("application run failed")
		os.Exit(1)
	}
}
