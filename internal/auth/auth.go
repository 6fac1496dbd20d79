// Package auth implements the credential store: a read-only,
// line-oriented table of
//
//	username password role
//
// records that a login attempt is matched against.
//
// Passwords are plain text. This is an educational tool; do not reuse
// the format anywhere that needs real security.
package auth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/afero"

	"github.com/aanand-mishra/student-records/internal/types"
)

var (
	// ErrStoreUnavailable means the credential table could not be read.
	ErrStoreUnavailable = errors.New("credential store unavailable")

	// ErrBadCredentials means no row matched the username and password.
	ErrBadCredentials = errors.New("invalid username or password")
)

// Store reads credentials from a file on fs.
type Store struct {
	fs   afero.Fs
	path string
}

// New returns a Store reading the table at path.
func New(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Path returns the location of the credential table.
func (s *Store) Path() string {
	return s.path
}

// Load parses the whole credential table.
//
// Lines with fewer than three whitespace-separated fields are skipped;
// fields after the third are ignored. There is no limit on line length.
func (s *Store) Load() ([]types.Credential, error) {
	f, err := s.fs.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	defer f.Close()

	var creds []types.Credential

	r := bufio.NewReader(f)
	for {
		line, readErr := r.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, readErr)
		}

		if fields := strings.Fields(line); len(fields) >= 3 {
			creds = append(creds, types.Credential{
				Username: fields[0],
				Password: fields[1],
				Role:     fields[2],
			})
		}

		if readErr != nil {
			break
		}
	}

	return creds, nil
}

// Authenticate matches username and password against the table and
// returns a Session for the first row that matches both exactly.
//
// The table is re-read on every call.
func (s *Store) Authenticate(username, password string) (types.Session, error) {
	creds, err := s.Load()
	if err != nil {
		return types.Session{}, err
	}

	for _, c := range creds {
		if c.Username == username && c.Password == password {
			slog.Debug("credential matched",
				slog.String("username", c.Username),
				slog.String("role", c.Role))
			return types.Session{
				Username: c.Username,
				Role:     types.ParseRole(c.Role),
				RoleName: c.Role,
			}, nil
		}
	}

	return types.Session{}, ErrBadCredentials
}
