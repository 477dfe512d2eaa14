package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite" // Test Package

	"github.com/stockpilot/stock-pilot-backend/internal/database"
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
// The pool is capped at one connection: an in-memory database exists per
// connection, so a second connection would see an empty schema.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", database.DSN(":memory:"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// SetupFileTestDB creates a file-backed SQLite database in a temp directory,
// opened through database.Open exactly as production does. Use this instead
// of SetupTestDB when a test needs a real connection pool, such as tests that
// run ledger operations concurrently.
func SetupFileTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the goose migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- User table
		CREATE TABLE user (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			username VARCHAR(100) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			reset_token VARCHAR(500),
			reset_token_expires_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Stock reference catalog
		CREATE TABLE stock (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			ticker VARCHAR(10) NOT NULL UNIQUE,
			company_name VARCHAR(255) NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Purchase trade ledger; quantity is the remaining open quantity
		CREATE TABLE purchase_trade (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			stock_id VARCHAR(36) NOT NULL,
			quantity FLOAT NOT NULL CHECK (quantity >= 0),
			price FLOAT NOT NULL,
			total_amount FLOAT NOT NULL,
			date DATE NOT NULL,
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(user_id) REFERENCES user(id) ON DELETE CASCADE,
			FOREIGN KEY(stock_id) REFERENCES stock(id)
		);

		-- Sale trade ledger
		CREATE TABLE sale_trade (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			purchase_trade_id VARCHAR(36) NOT NULL,
			quantity FLOAT NOT NULL CHECK (quantity > 0),
			sell_price FLOAT NOT NULL,
			buy_price FLOAT NOT NULL,
			total_amount FLOAT NOT NULL,
			net_profit FLOAT NOT NULL,
			date DATE NOT NULL,
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(user_id) REFERENCES user(id) ON DELETE CASCADE,
			FOREIGN KEY(purchase_trade_id) REFERENCES purchase_trade(id) ON DELETE CASCADE
		);

		-- System settings
		CREATE TABLE system_setting (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			"key" VARCHAR(50) NOT NULL UNIQUE,
			value VARCHAR(1000) NOT NULL,
			updated_at DATETIME
		);

		CREATE INDEX idx_purchase_trade_user ON purchase_trade(user_id);
		CREATE INDEX idx_sale_trade_user ON sale_trade(user_id);
		CREATE INDEX idx_sale_trade_parent ON sale_trade(purchase_trade_id);
		CREATE INDEX idx_stock_ticker ON stock(ticker);
	`

	_, err := db.Exec(schema)
	return err
}
