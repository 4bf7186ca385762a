package sqliteledger

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"pacer/internal/clockfmt"
	"pacer/internal/ledger"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped when the schema changes; mismatched databases are
// rejected rather than migrated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by an incompatible
// pacer version.
var ErrSchemaMismatch = errors.New("ledger schema version mismatch")

// Store implements ledger.Service backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin schema tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()
		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return tx.Commit()
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to recreate)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// Read returns all rows in append order.
func (s *Store) Read(ctx context.Context) ([]ledger.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT date, tracked, weekly_hours FROM ledger_rows ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query ledger rows: %w", err)
	}
	defer rows.Close()

	var result []ledger.Row
	for rows.Next() {
		var date, tracked string
		var weekly float64
		if err := rows.Scan(&date, &tracked, &weekly); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		duration, err := clockfmt.Parse(tracked)
		if err != nil {
			return nil, fmt.Errorf("ledger row %s: %w", date, err)
		}
		result = append(result, ledger.Row{Date: date, Tracked: duration, Weekly: weekly})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger rows: %w", err)
	}
	return result, nil
}

// Update overwrites the row at the given 0-based append position.
func (s *Store) Update(ctx context.Context, index int, row ledger.Row) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE ledger_rows SET date = ?, tracked = ?, weekly_hours = ?
		 WHERE id = (SELECT id FROM ledger_rows ORDER BY id LIMIT 1 OFFSET ?)`,
		row.Date, clockfmt.Format(row.Tracked), row.Weekly, index)
	if err != nil {
		return fmt.Errorf("update ledger row: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update ledger row: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update ledger row: no row at index %d", index)
	}
	return nil
}

// Append inserts a new row after the last one.
func (s *Store) Append(ctx context.Context, row ledger.Row) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO ledger_rows (date, tracked, weekly_hours) VALUES (?, ?, ?)",
		row.Date, clockfmt.Format(row.Tracked), row.Weekly)
	if err != nil {
		return fmt.Errorf("append ledger row: %w", err)
	}
	return nil
}

var _ ledger.Service = (*Store)(nil)
