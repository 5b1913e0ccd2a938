// internal/storage/sqlite/migrations/migrations.go
package migrations

import "embed"

// FS holds the versioned goose migrations for the sqlite backend.
//
//go:embed *.sql
var FS embed.FS
