package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver
)

// Open opens the SQLite database at dbPath. The settings the ledger depends
// on are passed in the DSN so they apply to every connection in the pool, not
// just the one that happens to run a PRAGMA statement: foreign keys must be
// on everywhere for sale rows to cascade when their purchase is deleted, and
// the busy timeout keeps a second writer waiting instead of failing with
// SQLITE_BUSY. Transactions start immediate so read-modify-write units take
// the write lock up front and serialize cleanly.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", DSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// DSN builds the connection string for dbPath with the pool-wide connection
// settings appended.
func DSN(dbPath string) string {
	options := "_txlock=immediate" +
		"&_pragma=foreign_keys(1)" +
		"&_pragma=busy_timeout(5000)"

	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + options
}

// HealthCheck reports whether the database connection is usable.
func HealthCheck(db *sql.DB) error {
	return db.Ping()
}
