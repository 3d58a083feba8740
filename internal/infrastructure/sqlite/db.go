// Package sqlite persists load history using SQLite.
package sqlite

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/starforge/internal/log"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// DB wraps the history database connection.
type DB struct {
	conn *sql.DB
	path string
}

// Open creates (if needed) and migrates the history database at path.
// The parent directory is created with owner-only permissions.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single writer (the supervisor goroutine); WAL keeps history readers
	// from blocking it.
	if _, err := conn.Exec(`PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;`); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}

	if err := applyMigrations(conn, migrationFS, "migrations"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	log.Debug(log.CatDB, "history database ready", "path", path)
	return &DB{conn: conn, path: path}, nil
}

// Loads returns the load-history repository.
func (d *DB) Loads() *LoadRepository {
	return NewLoadRepository(d.conn)
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	return d.conn.Close()
}
