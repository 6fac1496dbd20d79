// Package menu is the interactive surface of the application: the login
// screen, the per-role numbered menus and one handler per operation.
//
// HANDLER PATTERN USED HERE:
// ──────────────────────────
// Each operation follows the same steps:
//  1. Read and parse input through the console.Prompter
//  2. Validate the record with go-playground/validator
//  3. Call the storage layer (through the storage.Storage interface)
//  4. Print the outcome through the cli.Ui and log it with slog
//
// Every failure is reported and recovered inside the handler; the menu
// loop always continues with the next prompt.
package menu

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mitchellh/cli"
	"github.com/mitchellh/colorstring"

	"github.com/aanand-mishra/student-records/internal/console"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
)

// Menu dispatches numbered choices to student store operations.
type Menu struct {
	ui       cli.Ui
	prompt   *console.Prompter
	store    storage.Storage
	colorize *colorstring.Colorize
}

// New wires a Menu. colorize may be nil, in which case banners are
// printed without colour.
func New(ui cli.Ui, prompt *console.Prompter, store storage.Storage, colorize *colorstring.Colorize) *Menu {
	if colorize == nil {
		colorize = Colorize(false)
	}
	return &Menu{
		ui:       ui,
		prompt:   prompt,
		store:    store,
		colorize: colorize,
	}
}

// Colorize returns the colour scheme used for banners.
func Colorize(enabled bool) *colorstring.Colorize {
	return &colorstring.Colorize{
		Colors:  colorstring.DefaultColors,
		Disable: !enabled,
		Reset:   true,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Run shows the menu for session's role until the user picks Logout or
// the input is exhausted. Both end the session normally and return nil;
// only an unexpected read error is returned.
//
// Input that is not a number prints "Invalid input" and a number outside
// the menu prints "Invalid choice"; neither has side effects.
// ─────────────────────────────────────────────────────────────────────────────
func (m *Menu) Run(session types.Session) error {
	ops := Operations(session.Role)

	slog.Info("session started",
		slog.String("username", session.Username),
		slog.String("role", string(session.Role)))

	for {
		m.printMenu(session, ops)

		line, err := m.prompt.Line("Enter choice: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				m.ui.Output("")
				slog.Info("input exhausted, ending session",
					slog.String("username", session.Username))
				return nil
			}
			return fmt.Errorf("read choice: %w", err)
		}

		choice, err := console.ParseInt(line)
		if err != nil {
			m.ui.Error("Invalid input. Try again.")
			continue
		}
		if choice < 1 || choice > len(ops) {
			m.ui.Error("Invalid choice. Try again.")
			continue
		}

		op := ops[choice-1]
		if op == OpLogout {
			m.ui.Output("Logging out...")
			slog.Info("logout", slog.String("username", session.Username))
			return nil
		}

		m.dispatch(session, op)
	}
}

func (m *Menu) printMenu(session types.Session, ops []Operation) {
	banner := m.colorize.Color("[bold]\n====== %s MENU (user: %s role: %s) ======")
	m.ui.Output(fmt.Sprintf(banner, session.Role, session.Username, session.RoleName))

	var b strings.Builder
	for i, op := range ops {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, op)
	}
	m.ui.Output(b.String())
}

func (m *Menu) dispatch(session types.Session, op Operation) {
	if !Permitted(session.Role, op) {
		slog.Warn("operation not permitted",
			slog.String("username", session.Username),
			slog.String("operation", op.String()))
		m.ui.Error("Operation not permitted.")
		return
	}

	slog.Debug("dispatching operation",
		slog.String("username", session.Username),
		slog.String("operation", op.String()))

	switch op {
	case OpAdd:
		m.add(session)
	case OpDisplay:
		m.display()
	case OpSearch:
		m.search()
	case OpUpdate:
		m.update(session)
	case OpDelete:
		m.delete(session)
	}
}
