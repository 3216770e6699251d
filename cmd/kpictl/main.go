package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/app"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/cli"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/config"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/pkg/logger"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/repository/postgresql"
)

func main() {
	if err := cli.NewRootCmd(open).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func open(ctx context.Context) (*cli.Services, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger.New(os.Stderr, cfg.App.Env, cfg.App.LogLevel))

	application, err := app.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	services := &cli.Services{
		Kpi:    application.KpiService,
		Tokens: application.JWTService,
		Migrate: func(ctx context.Context) error {
			return postgresql.Migrate(ctx, application.DB)
		},
	}
	return services, func() { _ = application.Close() }, nil
}
