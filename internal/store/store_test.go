package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func TestOpen_AppliesMigrations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	version, err := GetCurrentVersion(db)
	if err != nil {
		t.Fatalf("failed to get version: %v", err)
	}
	if version < 1 {
		t.Errorf("expected migration version >= 1, got %d", version)
	}

	// Every table of the schema must exist
	tables := []string{"todos", "todo_subtasks", "todo_tags", "todo_shares", "todo_activity"}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("expected table %s to exist: %v", table, err)
		}
	}
}

func TestOpen_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	db.Close()

	// Re-opening must not re-apply migrations
	db, err = Open(dbPath)
	if err != nil {
		t.Fatalf("failed to re-open database: %v", err)
	}
	defer db.Close()
}

func TestWithTx_RollbackOnError(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	failure := errors.New("deliberate failure")
	err = WithTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
			INSERT INTO todos (id, title, completed, user_id, priority, archived, created_at, updated_at)
			VALUES ('todo-tx1', 'doomed', 0, 'alice', 'MEDIUM', 0, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')
		`); err != nil {
			return err
		}
		return failure
	})
	if err != failure {
		t.Fatalf("expected the callback error back, got %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM todos").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected rollback to discard the insert, found %d rows", count)
	}
}

func TestWithTx_CommitOnSuccess(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	err = WithTx(db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO todos (id, title, completed, user_id, priority, archived, created_at, updated_at)
			VALUES ('todo-tx2', 'kept', 0, 'alice', 'MEDIUM', 0, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')
		`)
		return err
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM todos").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected committed row, found %d rows", count)
	}
}
