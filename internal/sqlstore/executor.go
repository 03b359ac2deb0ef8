// Package sqlstore wraps the relational store: a read-only SQL executor
// with an enforced row cap, and the deterministic sample-data seeder.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// DefaultRowLimit is the implicit row cap applied when a query carries no
// explicit LIMIT clause.
const DefaultRowLimit = 1000

// Store wraps a *sql.DB opened against the configured SQLite path.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the SQLite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlstore: ping %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// DB exposes the underlying *sql.DB for the seeder and schema-introspection
// helpers.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Result is the outcome of a successful Execute call.
type Result struct {
	Columns []string
	Rows    []map[string]any
}

// ErrNotSelect is returned when query's first keyword is not SELECT.
var ErrNotSelect = fmt.Errorf("only SELECT statements are permitted")

// ErrEmptyQuery is returned for an empty or all-whitespace query.
var ErrEmptyQuery = fmt.Errorf("query must not be empty")

// Execute runs query (a SELECT statement) with args bound positionally.
// Trailing semicolons are stripped; if the statement carries no row-limit
// clause, an implicit cap of DefaultRowLimit rows is appended. The only
// side effect is a read on the store.
func (s *Store) Execute(ctx context.Context, query string, args []any) (*Result, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, ErrEmptyQuery
	}
	if !strings.HasPrefix(strings.ToLower(trimmed), "select") {
		return nil, ErrNotSelect
	}

	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), ";")
	if !strings.Contains(strings.ToLower(trimmed), "limit") {
		trimmed = fmt.Sprintf("%s LIMIT %d", trimmed, DefaultRowLimit)
	}

	rows, err := s.db.QueryContext(ctx, trimmed, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: execute: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// scanRows materializes every row of rows into string-keyed maps, coercing
// []byte column values (SQLite's driver returns text/blob as []byte) to
// string.
func scanRows(rows *sql.Rows) (*Result, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlstore: columns: %w", err)
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("sqlstore: scan: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterate: %w", err)
	}

	var resultColumns []string
	if len(out) > 0 {
		resultColumns = columns
	} else {
		resultColumns = []string{}
	}

	return &Result{Columns: resultColumns, Rows: out}, nil
}

// ListTables returns the user-table names in the store, sorted.
func (s *Store) ListTables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ColumnInfo describes one column from PRAGMA table_info.
type ColumnInfo struct {
	Name    string
	Type    string
	NotNull bool
	PK      bool
}

// TableInfo returns PRAGMA table_info(table) for schema introspection.
func (s *Store) TableInfo(ctx context.Context, table string) ([]ColumnInfo, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, fmt.Errorf("sqlstore: table info: %w", err)
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, ColumnInfo{Name: name, Type: colType, NotNull: notNull != 0, PK: pk != 0})
	}
	return cols, rows.Err()
}
