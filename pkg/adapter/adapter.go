// Package adapter defines the database adapter contract for the warehouse
// target. Concrete implementations live in pkg/adapters subdirectories and
// register themselves with this package's registry.
package adapter

import (
	"context"
	"database/sql"
)

// Config holds the connection settings for a warehouse target.
type Config struct {
	// Type selects the registered adapter (duckdb, postgres).
	Type string

	// Database is the file path for file-based targets and the database
	// name for network targets.
	Database string

	// Network targets.
	Host     string
	Port     int
	User     string
	Password string

	// Options holds driver-specific settings (e.g. sslmode).
	Options map[string]string
}

// Adapter is the interface every warehouse target must implement.
type Adapter interface {
	// Connect establishes the connection described by cfg.
	Connect(ctx context.Context, cfg Config) error

	// Close releases the connection.
	Close() error

	// Exec runs a statement that returns no rows.
	Exec(ctx context.Context, query string, args ...any) error

	// Query runs a statement that returns rows.
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)

	// Placeholder returns the parameter placeholder for 1-based position n.
	Placeholder(n int) string

	// LoadCSV lands a CSV file verbatim into the given (optionally
	// schema-qualified) table, replacing any previous contents. Every
	// column is kept as text; typing happens downstream.
	LoadCSV(ctx context.Context, table, path string) error

	// DialectName identifies the SQL dialect of this adapter.
	DialectName() string
}
