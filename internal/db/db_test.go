package db

import (
	"path/filepath"
	"testing"
)

func TestOpenMemory(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	// Verify tables exist by inserting into each one.
	tables := []string{"users", "documents", "qa_history"}

	for _, table := range tables {
		var count int
		err := d.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestOpenEnforcesForeignKeys(t *testing.T) {
	d, err := Open(filepath.Join(t.TempDir(), "paperlens.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer d.Close()

	var enabled int
	if err := d.QueryRow("PRAGMA foreign_keys").Scan(&enabled); err != nil {
		t.Fatalf("PRAGMA foreign_keys: %v", err)
	}
	if enabled != 1 {
		t.Fatalf("foreign_keys = %d, want 1", enabled)
	}

	// Deleting a parent row must cascade to its children.
	mustExec := func(query string, args ...any) {
		t.Helper()
		if _, err := d.Exec(query, args...); err != nil {
			t.Fatalf("exec %q: %v", query, err)
		}
	}
	mustExec("INSERT INTO users (id, email) VALUES ('u1', 'u1@example.com')")
	mustExec("INSERT INTO documents (id, user_id, filename) VALUES ('d1', 'u1', 'a.pdf')")
	mustExec("INSERT INTO qa_history (id, document_id, question) VALUES ('q1', 'd1', 'why?')")
	mustExec("DELETE FROM documents WHERE id = 'd1'")

	var orphans int
	if err := d.QueryRow("SELECT COUNT(*) FROM qa_history").Scan(&orphans); err != nil {
		t.Fatalf("counting qa_history: %v", err)
	}
	if orphans != 0 {
		t.Errorf("expected cascade to remove qa history, got %d records", orphans)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	// Running migrate again should not fail.
	if err := d.migrate(); err != nil {
		t.Fatalf("second migrate() error: %v", err)
	}
}
