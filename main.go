// main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"lever2lever/migrator/appcontext"
	"lever2lever/migrator/config"
	"lever2lever/migrator/leverapi"
	"lever2lever/migrator/mapping"
	"lever2lever/migrator/migrate"
	"lever2lever/migrator/seed"
	"lever2lever/migrator/storage"
)

func main() {
	_ = godotenv.Load()

	// Create the logger instance at the very beginning.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	if len(os.Args) < 2 {
		logger.Error("Usage: migrator <command> [options]")
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	if err := run(logger, command, args); err != nil {
		logger.Error("Application terminated with an error", "error", fmt.Sprintf("%+v", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, command string, args []string) error {
	ctx := appcontext.WithLogger(context.Background(), logger)

	switch command {
	case "init-mappings":
		// Scaffolding needs no credentials, so skip the full config load.
		return seed.RunInitMappings(ctx, logger, args)
	case "migrate":
		cfg, err := config.LoadConfig(ctx, logger)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return runMigration(ctx, logger, cfg)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func runMigration(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	// Tag every log line of this run with its correlation id.
	runID := uuid.NewString()
	logger = logger.With("runId", runID)
	ctx = appcontext.WithLogger(ctx, logger)

	logger.Info("Begin running opportunity migration")

	tables, err := mapping.LoadTables(ctx, cfg.MappingDir)
	if err != nil {
		logger.Error("Failed to load static mapping tables", "error", err)
		return fmt.Errorf("loading of mapping tables failed: %w", err)
	}

	client, err := storage.ConnectToMongoDB(ctx, cfg.MongoURI)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		return fmt.Errorf("connection to MongoDB failed: %w", err)
	}

	defer func() {
		if deferErr := client.Disconnect(ctx); deferErr != nil {
			logger.Error("Error disconnecting from MongoDB", "error", deferErr)
		}
	}()

	sourceClient, err := leverapi.NewClient(nil, cfg.Source.BaseURL, cfg.Source.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create source tenant client: %w", err)
	}

	targetClient, err := leverapi.NewClient(nil, cfg.Target.BaseURL, cfg.Target.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create target tenant client: %w", err)
	}

	repo := storage.NewMongoRepository(storage.NewMongoProvider(client))

	migrator := migrate.New(migrate.Dependencies{
		Store:            repo,
		Tables:           tables,
		Resolver:         mapping.NewResolver(targetClient),
		Stager:           migrate.NewStager(sourceClient, cfg.WorkDir),
		Target:           targetClient,
		BatchSize:        cfg.BatchSize,
		DefaultPerformAs: cfg.DefaultPerformAs,
		RunID:            runID,
	})

	stats, err := migrator.Run(ctx)
	if stats != nil {
		stats.Log(logger)
	}
	if err != nil {
		logger.Error("Error running migration", "error", err)
		return fmt.Errorf("migration run failed: %w", err)
	}

	logger.Info("Migration process completed successfully.")

	return nil
}
