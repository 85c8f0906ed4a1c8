package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/cloo-solutions/simsearch/internal/database"
)

// NewSQLiteDB opens a migrated SQLite database in a temporary directory.
// The handle is closed when the test finishes.
func NewSQLiteDB(ctx context.Context, t *testing.T) *sql.DB {
	t.Helper()
	return NewSQLiteDBAt(ctx, t, filepath.Join(t.TempDir(), "sims.db"))
}

// NewSQLiteDBAt is NewSQLiteDB for a caller-chosen path, for tests that
// reopen the same file through configuration.
func NewSQLiteDBAt(ctx context.Context, t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.MigrateSQLite(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

// SeedSQLite loads the shared fixture records into db.
func SeedSQLite(ctx context.Context, t *testing.T, db *sql.DB) {
	t.Helper()
	for _, stmt := range seedStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("failed to seed sqlite: %v\n%s", err, stmt)
		}
	}
}
