// Package flatfile provides the text-file implementation of the
// storage.Storage interface. Every record is one line:
//
//	roll|name|marks
//
// The file is accessed through an afero.Fs so the same code runs against
// the real disk (afero.NewOsFs) and an in-memory filesystem in tests.
package flatfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"

	"github.com/aanand-mishra/student-records/internal/codec"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
)

// FlatFile is the concrete text-file implementation of storage.Storage.
type FlatFile struct {
	fs   afero.Fs
	path string
}

var _ storage.Storage = (*FlatFile)(nil)

// New returns a FlatFile storing records at path on fs. The file does
// not need to exist yet; it is created by the first Append.
func New(fs afero.Fs, path string) *FlatFile {
	return &FlatFile{fs: fs, path: path}
}

// Path returns the location of the store file.
func (f *FlatFile) Path() string {
	return f.path
}

// ─────────────────────────────────────────────────────────────────────────────
// ReadAll returns all decodable records in file order.
//
// A missing file is an empty store. Lines that do not decode (wrong field
// count, non-numeric roll or marks) are skipped and logged at debug level;
// they never stop the scan.
// ─────────────────────────────────────────────────────────────────────────────
func (f *FlatFile) ReadAll() ([]types.Student, error) {
	students := make([]types.Student, 0)

	err := f.scan(func(st types.Student) bool {
		students = append(students, st)
		return true
	})
	if err != nil {
		return nil, err
	}

	return students, nil
}

// Exists reports whether any record carries roll. It stops reading at
// the first match.
func (f *FlatFile) Exists(roll int) (bool, error) {
	found := false

	err := f.scan(func(st types.Student) bool {
		if st.Roll == roll {
			found = true
			return false
		}
		return true
	})
	if err != nil {
		return false, err
	}

	return found, nil
}

// Append writes st as a new line at the end of the file, creating the
// file when needed.
func (f *FlatFile) Append(st types.Student) error {
	file, err := f.fs.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("Append: open %s: %w", f.path, err)
	}

	if _, err := fmt.Fprintln(file, codec.Encode(st)); err != nil {
		file.Close()
		return fmt.Errorf("Append: write: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("Append: close: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// RewriteAll regenerates the file from a transformed read of every record.
//
// HOW THE SWAP WORKS:
// ───────────────────
//  1. The surviving records are written to a temp file created in the
//     same directory as the store (so both live on one filesystem).
//  2. The temp file is flushed to disk and closed.
//  3. The temp file is renamed over the store file. On POSIX filesystems
//     this replaces the old file in a single step: a reader sees either
//     the old contents or the new, never a missing file.
//
// If any step fails the temp file is removed and the original store is
// left as it was. Malformed lines in the original are not carried over.
// ─────────────────────────────────────────────────────────────────────────────
func (f *FlatFile) RewriteAll(fn storage.Transform) (err error) {
	students, err := f.ReadAll()
	if err != nil {
		return fmt.Errorf("RewriteAll: %w", err)
	}

	tmp, err := afero.TempFile(f.fs, filepath.Dir(f.path), "."+filepath.Base(f.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("RewriteAll: create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if err == nil {
			return
		}
		if rmErr := f.fs.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
			err = multierror.Append(err, fmt.Errorf("remove temp file: %w", rmErr))
		}
	}()

	w := bufio.NewWriter(tmp)
	for _, st := range students {
		out, keep := fn(st)
		if !keep {
			continue
		}
		if _, err = fmt.Fprintln(w, codec.Encode(out)); err != nil {
			tmp.Close()
			return fmt.Errorf("RewriteAll: write temp file: %w", err)
		}
	}

	if err = w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("RewriteAll: flush temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("RewriteAll: sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("RewriteAll: close temp file: %w", err)
	}

	// Temp files are created 0600; keep the store's own permissions.
	if info, statErr := f.fs.Stat(f.path); statErr == nil {
		if err = f.fs.Chmod(tmpPath, info.Mode().Perm()); err != nil {
			return fmt.Errorf("RewriteAll: chmod temp file: %w", err)
		}
	}

	if err = f.fs.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("RewriteAll: replace %s: %w", f.path, err)
	}

	return nil
}

// scan decodes the store line by line and hands each record to yield
// until yield returns false.
//
// Lines are read whole, whatever their length, so an oversized line is
// just another malformed line.
func (f *FlatFile) scan(yield func(types.Student) bool) error {
	file, err := f.fs.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open %s: %w", f.path, err)
	}
	defer file.Close()

	r := bufio.NewReader(file)
	lineNo := 0
	for {
		line, readErr := r.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("read %s: %w", f.path, readErr)
		}
		if line == "" && readErr != nil {
			return nil
		}
		lineNo++

		st, err := codec.Decode(strings.TrimSuffix(line, "\n"))
		if err != nil {
			slog.Debug("skipping malformed store line",
				slog.String("path", f.path),
				slog.Int("line", lineNo),
				slog.Int("length", len(line)),
				slog.String("error", err.Error()))
		} else if !yield(st) {
			return nil
		}

		if readErr != nil {
			return nil
		}
	}
}
