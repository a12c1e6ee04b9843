package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/date"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS history (
	key              TEXT NOT NULL,
	date             TEXT NOT NULL,
	my_cost          TEXT NOT NULL,
	my_value         TEXT NOT NULL,
	benchmark_value  TEXT NOT NULL,
	benchmark_shares TEXT NOT NULL,
	PRIMARY KEY (key, date)
)`

// SQLite stores every history table in a single SQLite database.
// Amounts are stored as TEXT to keep their exact decimal value.
type SQLite struct {
	conn *sql.DB
	path string
}

// OpenSQLite opens, and creates if needed, the database at path.
// The path ":memory:" opens a private in-memory database.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serializes writers, and keeps ":memory:" a single database.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLite{conn: conn, path: path}, nil
}

// Read returns the rows of table key in chronological order.
func (s *SQLite) Read(ctx context.Context, key string) ([]wealth.HistoryRow, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT date, my_cost, my_value, benchmark_value, benchmark_shares FROM history WHERE key = ? ORDER BY date`, key)
	if err != nil {
		return nil, fmt.Errorf("failed to query history %s: %w", key, err)
	}
	defer rows.Close()

	var res []wealth.HistoryRow
	for rows.Next() {
		var on string
		var cols [4]string
		if err := rows.Scan(&on, &cols[0], &cols[1], &cols[2], &cols[3]); err != nil {
			return nil, fmt.Errorf("failed to scan history %s: %w", key, err)
		}
		row, err := parseRow(on, cols)
		if err != nil {
			return nil, fmt.Errorf("format error in history %s: %w", key, err)
		}
		res = append(res, row)
	}
	return res, rows.Err()
}

func parseRow(on string, cols [4]string) (row wealth.HistoryRow, err error) {
	if row.Date, err = date.Parse(on); err != nil {
		return row, err
	}
	dst := []*decimal.Decimal{&row.MyCost, &row.MyValue, &row.BenchmarkValue, &row.BenchmarkShares}
	for i, col := range cols {
		if *dst[i], err = decimal.NewFromString(col); err != nil {
			return row, fmt.Errorf("row %s: %w", on, err)
		}
	}
	return row, nil
}

// Write replaces table key by rows in a single transaction.
func (s *SQLite) Write(ctx context.Context, key string, rows []wealth.HistoryRow) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM history WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to clear history %s: %w", key, err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO history (key, date, my_cost, my_value, benchmark_value, benchmark_shares) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, key, r.Date.String(),
			r.MyCost.String(), r.MyValue.String(), r.BenchmarkValue.String(), r.BenchmarkShares.String()); err != nil {
			return fmt.Errorf("failed to insert %s row: %w", r.Date, err)
		}
	}
	return tx.Commit()
}

// Close closes the database.
func (s *SQLite) Close() error { return s.conn.Close() }
