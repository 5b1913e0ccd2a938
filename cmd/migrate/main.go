// cmd/migrate/main.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"expense-ledger/internal/config"
	"expense-ledger/internal/logging"
	"expense-ledger/internal/storage"
	pgmigrations "expense-ledger/internal/storage/postgres/migrations"
	"expense-ledger/internal/storage/sqlite"
	litemigrations "expense-ledger/internal/storage/sqlite/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const usage = "usage: migrate [up|down|status]"

func main() {
	cfg := config.MustLoad()
	logging.Setup(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	if err := run(context.Background(), cfg, cmd); err != nil {
		slog.Error("Migration command failed", "command", cmd, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, cmd string) error {
	db, dialect, migrations, err := open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	p, err := storage.NewMigrator(db, dialect, migrations)
	if err != nil {
		return err
	}

	switch cmd {
	case "up":
		results, err := p.Up(ctx)
		if err != nil {
			return err
		}
		for _, r := range results {
			slog.Info("Migration applied", "version", r.Source.Version, "file", r.Source.Path)
		}
		slog.Info("Migrations applied", "count", len(results))

	case "down":
		r, err := p.Down(ctx)
		if err != nil {
			return err
		}
		slog.Info("Migration rolled back", "version", r.Source.Version, "file", r.Source.Path)

	case "status":
		statuses, err := p.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			applied := "pending"
			if s.State == goose.StateApplied {
				applied = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("%5d  %-28s %s\n", s.Source.Version, s.Source.Path, applied)
		}

	default:
		return fmt.Errorf("unknown command %q, %s", cmd, usage)
	}
	return nil
}

func open(cfg config.Config) (*sql.DB, goose.Dialect, fs.FS, error) {
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		db, err := sqlite.OpenDB(cfg.SQLitePath)
		return db, goose.DialectSQLite3, litemigrations.FS, err
	default:
		db, err := sql.Open("pgx", cfg.DBConn)
		return db, goose.DialectPostgres, pgmigrations.FS, err
	}
}
