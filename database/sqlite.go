package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// ErrUnavailable is returned by Unavailable when the store could not be opened at startup.
var ErrUnavailable = errors.New("database unavailable")

// ConnProvider hands out short-lived connections. *sql.DB satisfies it; callers
// must Close the connection on every path.
type ConnProvider interface {
	Conn(ctx context.Context) (*sql.Conn, error)
}

// Unavailable is the provider used when startup could not reach the store.
type Unavailable struct{}

// Conn always fails with ErrUnavailable.
func (Unavailable) Conn(context.Context) (*sql.Conn, error) {
	return nil, ErrUnavailable
}

// dsn adds the driver options every connection in the pool needs.
func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_busy_timeout=5000&_foreign_keys=on"
}

// Open opens and pings the SQLite database at path.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
