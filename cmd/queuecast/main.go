package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/queuecast/internal/cli"
	"github.com/alexanderramin/queuecast/internal/config"
	"github.com/alexanderramin/queuecast/internal/db"
	"github.com/alexanderramin/queuecast/internal/repository"
	"github.com/alexanderramin/queuecast/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	logger := config.NewLogger(os.Stderr, cfg.Log)

	// Open database
	database, err := db.OpenDB(cfg.Data.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	taskRepo := repository.NewSQLiteTaskRepo(database)
	staffingRepo := repository.NewSQLiteStaffingRepo(database)
	batchRunRepo := repository.NewSQLiteBatchRunRepo(database)
	forecastRepo := repository.NewSQLiteForecastRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewLogUseCaseObserver(logger)

	references := service.NewReferenceService(taskRepo, staffingRepo, uow, service.ReferenceFiles{
		TasksPath:    cfg.Data.TasksPath,
		StaffingPath: cfg.Data.StaffingPath,
	}, observer)

	app := &cli.App{
		Config:     cfg,
		Logger:     logger,
		References: references,
		OpenServices: func(ctx context.Context) (*cli.Services, error) {
			engine, err := service.BuildEngine(ctx, cfg, references, logger)
			if err != nil {
				return nil, err
			}
			return &cli.Services{
				Predictions: service.NewPredictionService(engine, observer),
				Batches:     service.NewBatchService(engine, batchRunRepo, observer),
				Forecasts:   service.NewForecastService(engine, forecastRepo, uow, observer),
			}, nil
		},
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}
