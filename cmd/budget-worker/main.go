package main

import (
	"context"
	"errors"
	"os"
	"time"

	"budget/internal/backend"
	"budget/internal/cli"
	"budget/internal/events"
	gsheet "budget/internal/sheets/google"
	"budget/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting budget-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if err := cfg.ValidateWorker(); err != nil {
		logger.Error("Worker configuration validation failed", "error", err)
		os.Exit(1)
	}

	// The worker reads state from the same backend the server writes to.
	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(context.Background(), backend.Config{
		Type:          backend.BackendType(cfg.DataBackend),
		SQLiteDBPath:  cfg.SQLiteDBPath,
		StateFilePath: cfg.StateFilePath,
	})
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}()
	}

	sheetsClient, err := gsheet.NewFromEnv(context.Background())
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	backupWorker := worker.NewBackupWorker(result.Repository, sheetsClient, cfg.BackupInterval)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// Mirror current state once at startup so a fresh worker catches up
	// on anything missed while it was down.
	if err := backupWorker.Backup(ctx); err != nil {
		logger.Error("Startup backup failed", "error", err)
		// Don't exit, the consume loop and periodic backups still run
	}

	if err := backupWorker.Run(ctx, amqpClient); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
