package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

// NewTestDatabase opens a database in a temporary directory removed at the
// end of the test.
func NewTestDatabase(tb testing.TB) *DB {
	tb.Helper()

	ctx := context.Background()
	db, err := NewFromEnv(ctx, &Config{
		FilePath:    filepath.Join(tb.TempDir(), "test.db"),
		OpenTimeout: time.Second,
	})
	if err != nil {
		tb.Fatalf("open test database: %v", err)
	}

	tb.Cleanup(func() {
		_ = db.Close(ctx)
	})

	return db
}
