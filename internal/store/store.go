package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/marcboeker/go-duckdb"
)

// ErrNotFound is returned when no operation matches a lookup.
var ErrNotFound = errors.New("operation not found")

// StoreError wraps a database failure with the operation that hit it.
type StoreError struct {
	Op  string // "open", "append", "list", ...
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

// FileRecord is one file inside an operation, in application order. Status
// is "succeeded" or "failed"; callers normally persist only successes, but
// the schema keeps the column so a record is self-describing.
type FileRecord struct {
	OldPath string
	NewPath string
	Status  string
}

// StatusSucceeded marks a file whose rename was applied.
const StatusSucceeded = "succeeded"

// Operation is one persisted rename batch.
type Operation struct {
	ID         string
	Directory  string
	Prefix     string // Display prefix that was stripped.
	ExecutedAt time.Time
	UndoneAt   *time.Time // Nil while the operation is still active.
	Files      []FileRecord
}

// Undone reports whether the operation has been reversed.
func (o *Operation) Undone() bool { return o.UndoneAt != nil }

// Store is a DuckDB-backed operation log.
type Store struct {
	db   *sql.DB
	path string
}

const queryTimeout = 10 * time.Second

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, &StoreError{Op: "open", Err: err}
	}
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, &StoreError{Op: "open", Err: err}
	}
	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS operations (
		id VARCHAR PRIMARY KEY,
		directory VARCHAR NOT NULL,
		prefix VARCHAR NOT NULL,
		executed_at TIMESTAMP NOT NULL,
		undone_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS operation_files (
		operation_id VARCHAR NOT NULL,
		seq INTEGER NOT NULL,
		old_path VARCHAR NOT NULL,
		new_path VARCHAR NOT NULL,
		status VARCHAR NOT NULL,
		PRIMARY KEY (operation_id, seq),
		FOREIGN KEY (operation_id) REFERENCES operations(id)
	);

	CREATE INDEX IF NOT EXISTS idx_operations_executed_at ON operations(executed_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return &StoreError{Op: "open", Err: err}
	}
	return nil
}

// Append persists an operation and its files in one transaction.
func (s *Store) Append(ctx context.Context, op *Operation) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &StoreError{Op: "append", Err: err}
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO operations (id, directory, prefix, executed_at, undone_at)
		 VALUES (?, ?, ?, ?, NULL)`,
		op.ID, op.Directory, op.Prefix, op.ExecutedAt)
	if err != nil {
		return &StoreError{Op: "append", Err: err}
	}

	for i, f := range op.Files {
		status := f.Status
		if status == "" {
			status = StatusSucceeded
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO operation_files (operation_id, seq, old_path, new_path, status)
			 VALUES (?, ?, ?, ?, ?)`,
			op.ID, i, f.OldPath, f.NewPath, status)
		if err != nil {
			return &StoreError{Op: "append", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &StoreError{Op: "append", Err: err}
	}
	return nil
}

// List returns up to limit operations, most recent first, files included.
func (s *Store) List(ctx context.Context, limit int) ([]*Operation, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, directory, prefix, executed_at, undone_at
		 FROM operations
		 ORDER BY executed_at DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}
	defer rows.Close()

	var ops []*Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, &StoreError{Op: "list", Err: err}
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}

	for _, op := range ops {
		if err := s.loadFiles(ctx, op); err != nil {
			return nil, err
		}
	}
	return ops, nil
}

// Get returns the operation with the given id, files included.
func (s *Store) Get(ctx context.Context, id string) (*Operation, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, directory, prefix, executed_at, undone_at
		 FROM operations WHERE id = ?`, id)
	op, err := scanOperation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StoreError{Op: "get", Err: err}
	}
	if err := s.loadFiles(ctx, op); err != nil {
		return nil, err
	}
	return op, nil
}

// MostRecent returns the newest operation that has not been undone.
func (s *Store) MostRecent(ctx context.Context) (*Operation, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, directory, prefix, executed_at, undone_at
		 FROM operations
		 WHERE undone_at IS NULL
		 ORDER BY executed_at DESC, id DESC
		 LIMIT 1`)
	op, err := scanOperation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StoreError{Op: "get", Err: err}
	}
	if err := s.loadFiles(ctx, op); err != nil {
		return nil, err
	}
	return op, nil
}

// MarkUndone stamps the operation's undone_at. The rows are kept so the
// history remains inspectable.
func (s *Store) MarkUndone(ctx context.Context, id string, when time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`UPDATE operations SET undone_at = ? WHERE id = ?`, when, id)
	if err != nil {
		return &StoreError{Op: "mark-undone", Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of recorded operations.
func (s *Store) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var n int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM operations`)
	if err := row.Scan(&n); err != nil {
		return 0, &StoreError{Op: "count", Err: err}
	}
	return n, nil
}

// TestConnection verifies the database answers queries.
func (s *Store) TestConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var version string
	row := s.db.QueryRowContext(ctx, "SELECT version()")
	if err := row.Scan(&version); err != nil {
		return &StoreError{Op: "ping", Err: err}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOperation(r rowScanner) (*Operation, error) {
	var op Operation
	var undone sql.NullTime
	if err := r.Scan(&op.ID, &op.Directory, &op.Prefix, &op.ExecutedAt, &undone); err != nil {
		return nil, err
	}
	if undone.Valid {
		t := undone.Time
		op.UndoneAt = &t
	}
	return &op, nil
}

func (s *Store) loadFiles(ctx context.Context, op *Operation) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT old_path, new_path, status FROM operation_files
		 WHERE operation_id = ? ORDER BY seq`, op.ID)
	if err != nil {
		return &StoreError{Op: "load-files", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var f FileRecord
		if err := rows.Scan(&f.OldPath, &f.NewPath, &f.Status); err != nil {
			return &StoreError{Op: "load-files", Err: err}
		}
		op.Files = append(op.Files, f)
	}
	if err := rows.Err(); err != nil {
		return &StoreError{Op: "load-files", Err: err}
	}
	return nil
}
