// internal/storage/postgres/migrations/migrations.go
package migrations

import "embed"

// FS holds the versioned goose migrations for the postgres backend.
//
//go:embed *.sql
var FS embed.FS
