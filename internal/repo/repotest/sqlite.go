// Package repotest opens throwaway sqlite databases carrying the cart schema.
package repotest

import (
	"context"
	"fmt"
	"testing"

	"github.com/angelmondragon/doccart/pkg/migrate"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenSQLite returns an isolated in-memory database with every cart table created.
func OpenSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := migrate.EnsureSQLiteSchema(context.Background(), sqlDB); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}
