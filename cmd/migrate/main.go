// Command migrate は埋め込みSQLマイグレーションを操作します。
//
//	migrate up | down | status
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"task_backend/internal/platform/db"
	"task_backend/internal/platform/logger"
)

func main() {
	_ = godotenv.Load()
	logger.New(os.Stderr, "task_backend-migrate", os.Getenv("APP_ENV"))

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: migrate up|down|status")
		os.Exit(2)
	}

	if err := run(os.Args[1]); err != nil {
		slog.Error("migration failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func run(cmd string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	gdb, err := db.Open(db.LoadConfigFromEnv(), 30*time.Second)
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer func() { _ = sqlDB.Close() }()
	}

	m, err := db.NewMigrator(gdb)
	if err != nil {
		return err
	}

	switch cmd {
	case "up":
		return m.Up(ctx)
	case "down":
		return m.Down(ctx)
	case "status":
		statuses, err := m.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			applied := "pending"
			if !s.AppliedAt.IsZero() {
				applied = s.AppliedAt.Format(time.RFC3339)
			}
			fmt.Printf("%05d  %-8s  %s  %s\n", s.Source.Version, s.State, applied, s.Source.Path)
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}
