// Package storage defines the Storage interface, a contract that any
// student-record backend must satisfy to work with this application.
//
// WHY AN INTERFACE?
// ─────────────────
// The menu should not know or care whether records live in a pipe-
// delimited text file or in a SQLite database. It depends only on this
// interface and on the helpers below (Find, Add, Update, Delete), which
// are written once in terms of the four primitive operations.
package storage

import (
	"errors"
	"fmt"

	"github.com/aanand-mishra/student-records/internal/types"
)

var (
	// ErrNotFound is returned when no record carries the requested roll.
	ErrNotFound = errors.New("student not found")

	// ErrConflict is returned when adding a roll that is already taken.
	ErrConflict = errors.New("student already exists")
)

// Transform is applied to every record during RewriteAll.
// It returns the record to keep (possibly edited) and true, or false to
// drop the record from the store.
type Transform func(st types.Student) (types.Student, bool)

// Storage is the student store contract.
type Storage interface {
	// Exists reports whether a record with the given roll is stored.
	// An absent store holds no records; that is not an error.
	Exists(roll int) (bool, error)

	// Append adds one record at the end of the store. It does not check
	// for duplicates; use Add for that.
	Append(st types.Student) error

	// ReadAll returns every readable record in store order. Each call
	// starts from the beginning. Unreadable entries are skipped.
	ReadAll() ([]types.Student, error)

	// RewriteAll replaces the store contents with the result of applying
	// fn to every record, preserving relative order.
	RewriteAll(fn Transform) error
}

// Find returns the first record with the given roll.
func Find(s Storage, roll int) (types.Student, error) {
	students, err := s.ReadAll()
	if err != nil {
		return types.Student{}, err
	}

	for _, st := range students {
		if st.Roll == roll {
			return st, nil
		}
	}

	return types.Student{}, fmt.Errorf("roll %d: %w", roll, ErrNotFound)
}

// Add stores st unless its roll is already taken, in which case the
// store is left untouched and ErrConflict is returned.
func Add(s Storage, st types.Student) error {
	exists, err := s.Exists(st.Roll)
	if err != nil {
		return fmt.Errorf("Add: check roll: %w", err)
	}
	if exists {
		return fmt.Errorf("roll %d: %w", st.Roll, ErrConflict)
	}

	if err := s.Append(st); err != nil {
		return fmt.Errorf("Add: %w", err)
	}
	return nil
}

// Update rewrites the store with edit applied to the record matching
// roll; every other record passes through unchanged. The edited record
// keeps its roll. When roll is absent nothing is rewritten and
// ErrNotFound is returned.
func Update(s Storage, roll int, edit func(types.Student) types.Student) error {
	exists, err := s.Exists(roll)
	if err != nil {
		return fmt.Errorf("Update: check roll: %w", err)
	}
	if !exists {
		return fmt.Errorf("roll %d: %w", roll, ErrNotFound)
	}

	err = s.RewriteAll(func(st types.Student) (types.Student, bool) {
		if st.Roll != roll {
			return st, true
		}
		edited := edit(st)
		edited.Roll = roll
		return edited, true
	})
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	return nil
}

// Delete rewrites the store without the record matching roll. When roll
// is absent nothing is rewritten and ErrNotFound is returned.
func Delete(s Storage, roll int) error {
	exists, err := s.Exists(roll)
	if err != nil {
		return fmt.Errorf("Delete: check roll: %w", err)
	}
	if !exists {
		return fmt.Errorf("roll %d: %w", roll, ErrNotFound)
	}

	err = s.RewriteAll(func(st types.Student) (types.Student, bool) {
		return st, st.Roll != roll
	})
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}
