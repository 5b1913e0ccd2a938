// internal/storage/sqlite/sqlite.go
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"expense-ledger/internal/domain"
	"expense-ledger/internal/storage"
	"expense-ledger/internal/storage/sqlite/migrations"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure Go driver, registers "sqlite"
)

var _ storage.Store = (*Storage)(nil)

// Storage is the embedded record store used for local runs and tests.
type Storage struct {
	db   *sql.DB
	path string
}

func dsn(path string) string {
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// OpenDB returns a plain database/sql handle on the file at path, with
// foreign keys enforced. Migration tooling uses it directly.
func OpenDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	return sql.Open("sqlite", dsn(path))
}

// New opens (and creates if needed) the database file at path.
func New(path string) (*Storage, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; keeps transactions serialized.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Storage{db: db, path: path}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate uses its own connection so it never competes with the store's
// single pooled connection.
func (s *Storage) Migrate(ctx context.Context) error {
	db, err := OpenDB(s.path)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer db.Close()

	return storage.RunMigrations(ctx, db, goose.DialectSQLite3, migrations.FS)
}

func translateError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return domain.ErrDuplicateEmail
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("foreign key: %w", domain.ErrNotFound)
	}
	return err
}
