package database_test

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stockpilot/stock-pilot-backend/internal/database"
)

func TestDSN(t *testing.T) {
	t.Run("appends connection options to a plain path", func(t *testing.T) {
		dsn := database.DSN("/data/app.db")
		if !strings.HasPrefix(dsn, "/data/app.db?") {
			t.Errorf("Expected options appended with ?, got %q", dsn)
		}
		for _, option := range []string{"_txlock=immediate", "_pragma=foreign_keys(1)", "_pragma=busy_timeout(5000)"} {
			if !strings.Contains(dsn, option) {
				t.Errorf("Expected DSN to carry %q, got %q", option, dsn)
			}
		}
	})

	t.Run("joins with ampersand when the path already has options", func(t *testing.T) {
		dsn := database.DSN(":memory:?cache=shared")
		if strings.Count(dsn, "?") != 1 {
			t.Errorf("Expected a single ?, got %q", dsn)
		}
		if !strings.Contains(dsn, "&_txlock=immediate") {
			t.Errorf("Expected options joined with &, got %q", dsn)
		}
	})
}

// TestOpen_ForeignKeysOnEveryConnection verifies that foreign key enforcement
// reaches every connection in the pool, not just the first one opened.
//
// WHY: SQLite's foreign_keys pragma is per connection. Configured through the
// DSN it applies wherever the pool hands out a connection; configured any
// other way, a request landing on a fresh connection would skip enforcement
// and cascade deletes would leave orphans.
func TestOpen_ForeignKeysOnEveryConnection(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() returned unexpected error: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	schema := `
		CREATE TABLE parent (id TEXT PRIMARY KEY);
		CREATE TABLE child (
			id TEXT PRIMARY KEY,
			parent_id TEXT NOT NULL,
			FOREIGN KEY(parent_id) REFERENCES parent(id) ON DELETE CASCADE
		);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	// Hold several pooled connections at once so each Conn is a distinct
	// underlying connection, then check enforcement on each of them.
	conns := make([]*sql.Conn, 4)
	for i := range conns {
		conn, err := db.Conn(ctx)
		if err != nil {
			t.Fatalf("Failed to get connection %d: %v", i, err)
		}
		defer conn.Close()
		conns[i] = conn
	}

	for i, conn := range conns {
		if _, err := conn.ExecContext(ctx, `INSERT INTO child (id, parent_id) VALUES (?, ?)`, fmt.Sprintf("orphan-%d", i), "missing"); err == nil {
			t.Errorf("Expected foreign key violation on connection %d, got nil", i)
		}
	}

	// Cascade must also work across connections: insert on one, delete the
	// parent on another.
	if _, err := conns[0].ExecContext(ctx, `INSERT INTO parent (id) VALUES ('p1')`); err != nil {
		t.Fatalf("Failed to insert parent: %v", err)
	}
	if _, err := conns[0].ExecContext(ctx, `INSERT INTO child (id, parent_id) VALUES ('c1', 'p1')`); err != nil {
		t.Fatalf("Failed to insert child: %v", err)
	}
	if _, err := conns[3].ExecContext(ctx, `DELETE FROM parent WHERE id = 'p1'`); err != nil {
		t.Fatalf("Failed to delete parent: %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM child`).Scan(&count); err != nil {
		t.Fatalf("Failed to count children: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected cascade to remove the child row, got %d remaining", count)
	}
}
