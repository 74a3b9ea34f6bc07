package main

// Run database migrations:
//   go run ./cmd/migrate            # up
//   go run ./cmd/migrate down
//   go run ./cmd/migrate version

import (
	"context"
	"fmt"
	"os"

	"resume-tracker/internal/shared/config"
	"resume-tracker/internal/shared/storage/db"
	"resume-tracker/internal/shared/telemetry"
)

func main() {
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}
	if err := run(context.Background(), command); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"command": command, "error": err.Error()})
		os.Exit(1)
	}
}

func run(ctx context.Context, command string) error {
	switch command {
	case "up", "down", "version":
	default:
		return fmt.Errorf("unknown command %q (want up, down or version)", command)
	}

	cfg := config.Load()
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	switch command {
	case "down":
		return db.RollbackMigration(ctx, sqlDB)
	case "version":
		version, err := db.MigrationVersion(ctx, sqlDB)
		if err != nil {
			return err
		}
		telemetry.Info("migrate.version", map[string]any{"version": version})
		return nil
	default:
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return err
		}
		telemetry.Info("migrate.applied", nil)
		return nil
	}
}
