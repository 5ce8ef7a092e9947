// Package dbtest provides migrated sqlite databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/uptrace/bun"

	"github.com/eslsoft/lingvo/internal/infrastructure/database"
)

// DSN returns a fresh sqlite DSN inside the test's temp dir.
func DSN(t testing.TB) string {
	t.Helper()
	return "file:" + filepath.Join(t.TempDir(), "lingvo.db") + "?_foreign_keys=on&_busy_timeout=5000"
}

// Open migrates and seeds a new sqlite database and returns a bun handle on it.
func Open(t testing.TB) *bun.DB {
	t.Helper()
	db, _ := OpenWithDSN(t)
	return db
}

// OpenWithDSN is Open that also returns the DSN, for code that opens its own connection.
func OpenWithDSN(t testing.TB) (*bun.DB, string) {
	t.Helper()

	dsn := DSN(t)
	if err := database.Migrate("sqlite3", dsn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db, err := database.OpenSQLite(dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := database.Seed(context.Background(), db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db, dsn
}
