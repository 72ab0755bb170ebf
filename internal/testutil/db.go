// Package testutil provides shared helpers for package tests.
package testutil

import (
	"testing"

	"kinship/internal/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB opens an isolated in-memory sqlite database with the full schema
// migrated. A single connection is enforced so every query in a test sees
// the same in-memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.NewGormConfig())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	return db
}
