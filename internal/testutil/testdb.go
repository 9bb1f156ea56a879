package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/alexanderramin/studyplan/internal/kv"
)

// NewTestDB opens a private in-memory database with the kv_store schema.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("opening in-memory kv database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// NewTestKV returns transactional sqlite storage over a fresh database.
func NewTestKV(t *testing.T) *kv.SQLiteStorage {
	t.Helper()
	database := NewTestDB(t)
	return kv.NewSQLiteStorage(database, db.NewSQLiteUnitOfWork(database))
}
