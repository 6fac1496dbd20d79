// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// It is selected with storage_type: sqlite in the config. The text file
// stays the default; this backend keeps the same record semantics
// (unique roll, insertion order, rewrite-all through a transform).
//
// The blank import below registers the sqlite3 driver with database/sql.
// The driver's init() function does this automatically when the package
// is loaded; we never call anything from it directly.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete database implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
type SQLite struct {
	Db *sql.DB
}

var _ storage.Storage = (*SQLite)(nil)

// New opens the SQLite database at the path specified in cfg.StoragePath,
// creates the students table if it does not already exist, and returns
// a ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := sql.Open("sqlite3", cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// Schema:
	//   id    insertion order; ReadAll sorts on it
	//   roll  the record key, unique
	//   name  student's full name
	//   marks numeric mark, two decimals
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id    INTEGER PRIMARY KEY AUTOINCREMENT,
			roll  INTEGER NOT NULL UNIQUE,
			name  TEXT    NOT NULL,
			marks REAL    NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// Exists reports whether a row with the given roll is present.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Exists(roll int) (bool, error) {
	var exists bool

	err := s.Db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM students WHERE roll = ?)", roll,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("Exists: %w", err)
	}

	return exists, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Append inserts a new row. Prepared statements keep the name out of the
// SQL text, so no escaping is needed.
//
// The UNIQUE constraint on roll rejects duplicates at the database level;
// storage.Add still checks first so the caller gets ErrConflict.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Append(st types.Student) error {
	stmt, err := s.Db.Prepare(
		"INSERT INTO students (roll, name, marks) VALUES (?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("Append: prepare: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(st.Roll, st.Name, st.Marks); err != nil {
		return fmt.Errorf("Append: exec: %w", err)
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// ReadAll returns all rows in insertion order.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) ReadAll() ([]types.Student, error) {
	return readAll(s.Db)
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

func readAll(q queryer) ([]types.Student, error) {
	rows, err := q.Query("SELECT roll, name, marks FROM students ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("ReadAll: query: %w", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)

	for rows.Next() {
		var st types.Student

		if err := rows.Scan(&st.Roll, &st.Name, &st.Marks); err != nil {
			return nil, fmt.Errorf("ReadAll: scan row: %w", err)
		}

		students = append(students, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ReadAll: rows iteration: %w", err)
	}

	return students, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// RewriteAll applies fn to every row inside one transaction:
//
//  1. read all rows in order
//  2. delete them
//  3. insert the survivors in the same order
//
// Either the whole rewrite commits or nothing changes.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) RewriteAll(fn storage.Transform) (err error) {
	tx, err := s.Db.Begin()
	if err != nil {
		return fmt.Errorf("RewriteAll: begin: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = multierror.Append(err, fmt.Errorf("rollback: %w", rbErr))
		}
	}()

	students, err := readAll(tx)
	if err != nil {
		return fmt.Errorf("RewriteAll: %w", err)
	}

	if _, err = tx.Exec("DELETE FROM students"); err != nil {
		return fmt.Errorf("RewriteAll: clear: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO students (roll, name, marks) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("RewriteAll: prepare: %w", err)
	}
	defer stmt.Close()

	for _, st := range students {
		out, keep := fn(st)
		if !keep {
			continue
		}
		if _, err = stmt.Exec(out.Roll, out.Name, out.Marks); err != nil {
			return fmt.Errorf("RewriteAll: insert roll %d: %w", out.Roll, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("RewriteAll: commit: %w", err)
	}

	return nil
}
