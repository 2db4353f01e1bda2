package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the scan-history database. A single WAL-mode connection is
// enough for one sequential writer per run plus occasional history reads.
type DB struct {
	Conn *sql.DB
	path string
}

// NewDB opens the scan-history database with WAL mode and a busy timeout.
func NewDB(dbPath string) (*DB, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)",
		dbPath,
	)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open scan db: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping scan db: %w", err)
	}

	return &DB{Conn: conn, path: dbPath}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if err := db.Conn.Close(); err != nil {
		return fmt.Errorf("close scan db: %w", err)
	}
	return nil
}
