package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNotInitialized = errors.New("database not initialized")

const schema = `
CREATE TABLE IF NOT EXISTS drafts (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    content BLOB NOT NULL,
    content_hash TEXT NOT NULL,
    has_image INTEGER NOT NULL DEFAULT 0,
    image_url TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);`

type SQLite struct {
	dsn  string
	conn *sql.DB
}

// NewSQLite opens dsn on InitDB. An empty dsn names a fresh in-memory database that
// no other SQLite value shares.
func NewSQLite(dsn string) *SQLite {
	if dsn == "" {
		dsn = MemoryDSN()
	}
	return &SQLite{dsn: dsn}
}

// MemoryDSN returns the DSN of a new, uniquely named in-memory database.
func MemoryDSN() string {
	return "file:postcraft-" + uuid.NewString() + "?mode=memory&cache=shared"
}

func (s *SQLite) InitDB(ctx context.Context) error {
	conn, err := sql.Open("sqlite3", s.dsn)
	if err != nil {
		return err
	}

	// In-memory databases vanish when their last connection closes, and a single
	// writer avoids SQLITE_BUSY on the shared cache.
	if strings.Contains(s.dsn, ":memory:") || strings.Contains(s.dsn, "mode=memory") {
		conn.SetMaxOpenConns(1)
		conn.SetConnMaxIdleTime(0)
		conn.SetConnMaxLifetime(0)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return err
	}

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		return err
	}

	s.conn = conn
	dbLogger.Info().Str("dsn", s.dsn).Msg("Database initialized")
	return nil
}

func (s *SQLite) Get() *sql.DB {
	return s.conn
}

func (s *SQLite) Close() error {
	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}

func (s *SQLite) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if s.conn == nil {
		return nil, ErrNotInitialized
	}
	dbLogger.Debug().Str("query", query).Msg("Query")
	return s.conn.QueryContext(ctx, query, args...)
}

func (s *SQLite) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	if s.conn == nil {
		return nil
	}
	dbLogger.Debug().Str("query", query).Msg("QueryRow")
	return s.conn.QueryRowContext(ctx, query, args...)
}

func (s *SQLite) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if s.conn == nil {
		return nil, ErrNotInitialized
	}
	dbLogger.Debug().Str("query", query).Msg("Exec")
	return s.conn.ExecContext(ctx, query, args...)
}
