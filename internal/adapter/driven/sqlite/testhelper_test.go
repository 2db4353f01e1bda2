package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"testing"
)

// setupTestDB creates a named shared in-memory SQLite database for testing.
// A unique name derived from t.Name() ensures isolation between tests.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Percent-encode the test name so it's a safe SQLite URI filename
	// component and cannot be misinterpreted as query parameters.
	safeName := url.PathEscape(t.Name())
	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)",
		safeName,
	)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	conn.SetMaxOpenConns(1)
	if err := conn.PingContext(context.Background()); err != nil {
		_ = conn.Close()
		t.Fatalf("ping test db: %v", err)
	}

	db := &DB{Conn: conn, path: dsn}

	if err := RunMigrations(db.Conn); err != nil {
		_ = db.Close()
		t.Fatalf("run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })

	return db
}
