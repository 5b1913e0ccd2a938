// internal/storage/backend/backend_test.go
package backend

import (
	"context"
	"path/filepath"
	"testing"

	"expense-ledger/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	store, closeStore, err := Open(ctx, config.Config{
		StorageBackend: config.BackendSQLite,
		SQLitePath:     filepath.Join(t.TempDir(), "nested", "ledger.db"),
	})
	require.NoError(t, err)
	defer closeStore()

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Migrate(ctx))

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, _, err := Open(context.Background(), config.Config{StorageBackend: "mysql"})
	assert.ErrorContains(t, err, "unknown storage backend")
}
