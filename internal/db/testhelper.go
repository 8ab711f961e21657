package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// OpenTestSQLite opens the write/read pool pair on a fresh SQLite file
// under t.TempDir(), brings the schema up to date, and closes both pools
// when the test finishes.
//
// Tests that never exercise the pool split can do all their work through
// writeDB.
func OpenTestSQLite(t *testing.T) (writeDB, readDB *sql.DB) {
	t.Helper()

	writeDB, readDB, err := OpenSQLitePair(filepath.Join(t.TempDir(), "housepoints-test.sqlite"), 4)
	if err != nil {
		t.Fatalf("open sqlite pair: %v", err)
	}
	t.Cleanup(func() {
		_ = readDB.Close()
		_ = writeDB.Close()
	})

	if err := RunMigrations(writeDB); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return writeDB, readDB
}
