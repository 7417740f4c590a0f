package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore persists the invocation history in MySQL.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore opens the connection pool and initializes the schema.
func NewMySQLStore(ctx context.Context, dsn string) (*MySQLStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("mysql dsn is empty")
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	store := &MySQLStore{db: db}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *MySQLStore) initSchema(ctx context.Context) error {
	const schema = `CREATE TABLE IF NOT EXISTS tool_invocations (
        id CHAR(36) NOT NULL PRIMARY KEY,
        tool VARCHAR(128) NOT NULL,
        arguments TEXT NOT NULL,
        outcome VARCHAR(16) NOT NULL,
        error TEXT,
        duration_ms BIGINT NOT NULL,
        created_at BIGINT NOT NULL,
        INDEX idx_tool_created (tool, created_at)
)`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init tool_invocations table: %w", err)
	}
	return nil
}

// Append writes one invocation record.
func (s *MySQLStore) Append(ctx context.Context, record *Record) error {
	const stmt = `INSERT INTO tool_invocations
        (id, tool, arguments, outcome, error, duration_ms, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, stmt,
		record.ID,
		record.Tool,
		record.Arguments,
		string(record.Outcome),
		record.Error,
		record.DurationMs,
		record.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert invocation record: %w", err)
	}
	return nil
}

// ListLatest returns the most recent records, newest first.
func (s *MySQLStore) ListLatest(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, tool, arguments, outcome, error, duration_ms, created_at
        FROM tool_invocations ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query invocation records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var (
			record  Record
			errText sql.NullString
		)
		if err := rows.Scan(&record.ID, &record.Tool, &record.Arguments, &record.Outcome, &errText, &record.DurationMs, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan invocation record: %w", err)
		}
		record.Error = errText.String
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invocation records: %w", err)
	}
	return records, nil
}

// Close releases the connection pool.
func (s *MySQLStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
