package menu

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mitchellh/cli"

	"github.com/aanand-mishra/student-records/internal/auth"
	"github.com/aanand-mishra/student-records/internal/console"
	"github.com/aanand-mishra/student-records/internal/types"
)

// Authenticator matches a login attempt against the credential table.
// *auth.Store satisfies it.
type Authenticator interface {
	Authenticate(username, password string) (types.Session, error)
	Path() string
}

// Login shows the login screen and makes exactly one authentication
// attempt.
//
// Errors reading the username or password are returned as-is (io.EOF when
// the input is closed). Authentication failures return auth.ErrBadCredentials
// or auth.ErrStoreUnavailable; no Session is created in either case.
func Login(ui cli.Ui, p *console.Prompter, a Authenticator) (types.Session, error) {
	ui.Output("========= LOGIN SCREEN =========")

	username, err := p.Line("Username: ")
	if err != nil {
		return types.Session{}, fmt.Errorf("read username: %w", err)
	}

	password, err := p.Secret("Password: ")
	if err != nil {
		return types.Session{}, fmt.Errorf("read password: %w", err)
	}

	session, err := a.Authenticate(username, password)
	switch {
	case errors.Is(err, auth.ErrStoreUnavailable):
		slog.Error("login failed: credential store unavailable",
			slog.String("path", a.Path()),
			slog.String("error", err.Error()))
		ui.Error(fmt.Sprintf("Error: credentials file '%s' not found.", a.Path()))
		ui.Output(fmt.Sprintf("Create '%s' with lines like: admin adminpass ADMIN", a.Path()))
		return types.Session{}, err

	case err != nil:
		slog.Warn("login failed: bad credentials",
			slog.String("username", username))
		return types.Session{}, err
	}

	slog.Info("login succeeded",
		slog.String("username", session.Username),
		slog.String("role", string(session.Role)))

	return session, nil
}
