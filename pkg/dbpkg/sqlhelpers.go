// Package dbpkg provides helpers for database setup and database tests.
package dbpkg

import (
	"context"
	"database/sql"
	"testing"
)

// Setup opens a database connection and verifies it with a ping.
func Setup(driver, source string) (*sql.DB, error) {
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// SetupTX opens a transaction for a test and rolls it back on cleanup, so
// every test starts from a clean database.
func SetupTX(t *testing.T, driver, source string) *sql.Tx {
	t.Helper()

	db, err := Setup(driver, source)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("beginning transaction: %v", err)
	}

	t.Cleanup(func() {
		if err := tx.Rollback(); err != nil {
			t.Errorf("rolling back: %v", err)
		}
		if err := db.Close(); err != nil {
			t.Errorf("closing database: %v", err)
		}
	})

	return tx
}

// SQLInterface is satisfied by both *sql.DB and *sql.Tx, so repos can run
// against a live connection or a per-test transaction.
type SQLInterface interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}
