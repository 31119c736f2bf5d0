package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"booklibrary/internal/platform/postgres"

	"github.com/pressly/goose/v3"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	loadEnvFiles()

	if err := run(context.Background(), *command, *name); err != nil {
		slog.Error("migrate failed", "command", *command, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command, name string) error {
	if command == "create" {
		if name == "" {
			return fmt.Errorf("name is required for 'create' command")
		}
		if err := goose.Create(nil, migrationsDir(), name, "sql"); err != nil {
			return fmt.Errorf("create migration: %w", err)
		}
		fmt.Printf("Migration created: %s\n", name)
		return nil
	}

	pool, err := postgres.Open(ctx, databaseDSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	switch command {
	case "up":
		if err := postgres.Migrate(ctx, pool); err != nil {
			return err
		}
		fmt.Println("Migrations applied successfully")
	case "down":
		if err := postgres.Rollback(ctx, pool); err != nil {
			return err
		}
		fmt.Println("Migrations rolled back successfully")
	case "status":
		statuses, err := postgres.MigrationStatus(ctx, pool)
		if err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
		for _, s := range statuses {
			appliedAt := "-"
			if !s.AppliedAt.IsZero() {
				appliedAt = s.AppliedAt.Format(time.RFC3339)
			}
			fmt.Printf("%-10s %-25s %s\n", s.State, appliedAt, s.Source.Path)
		}
	default:
		return fmt.Errorf("unknown command: %s. Use: up, down, status, create", command)
	}
	return nil
}
