// internal/storage/backend/backend.go
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"expense-ledger/internal/config"
	"expense-ledger/internal/storage"
	"expense-ledger/internal/storage/postgres"
	"expense-ledger/internal/storage/sqlite"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Open connects the store selected by cfg.StorageBackend. The returned func
// releases it.
func Open(ctx context.Context, cfg config.Config) (storage.Store, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DBConn)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		return postgres.NewStorage(pool), pool.Close, nil

	case config.BackendSQLite:
		store, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				slog.Warn("Closing sqlite store", "error", err)
			}
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
