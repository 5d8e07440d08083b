package migrate

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
)

// sqliteSchema mirrors the goose migrations for sqlite, which goose is not
// run against. Every statement is idempotent.
//
//go:embed sqlite/schema.sql
var sqliteSchema string

// EnsureSQLiteSchema creates any missing cart table on a sqlite database.
func EnsureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	for _, stmt := range strings.Split(sqliteSchema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply sqlite schema: %w", err)
		}
	}
	return nil
}
