// main is the entry point of the student-records console application.
//
// STARTUP SEQUENCE:
//  1. Load configuration (YAML file, env vars, or defaults)
//  2. Initialise the logger (to a log file, never to the console)
//  3. Open the student store (text file or SQLite)
//  4. Show the login screen and authenticate once
//  5. Run the menu for the authenticated role until logout
//
// The process exits with status 0 after a logout, a failed login or the
// end of input. Only a broken configuration or store exits non-zero.
//
// RUNNING:
//
//	go run ./cmd/student-records
//
// or with a config file:
//
//	go run ./cmd/student-records --config=config/local.yaml
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"

	"github.com/aanand-mishra/student-records/internal/auth"
	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/console"
	"github.com/aanand-mishra/student-records/internal/menu"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/storage/flatfile"
	"github.com/aanand-mishra/student-records/internal/storage/sqlite"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	logOut, closeLog, err := openLog(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open log file: %s\n", err)
		os.Exit(1)
	}
	defer closeLog()

	log := setupLogger(cfg.Env, logOut)
	slog.SetDefault(log)

	log.Info("starting student-records",
		slog.String("env", cfg.Env),
		slog.String("storage_type", cfg.StorageType),
		slog.String("version", "1.0.0"),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	store, closeStore, err := newStorage(cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "cannot open student store: %s\n", err)
		os.Exit(1)
	}
	defer closeStore()

	log.Info("storage initialised",
		slog.String("path", cfg.StoragePath))

	// ── 4. Console + Login ────────────────────────────────────────────────
	color := !cfg.ColorDisabled() && isatty.IsTerminal(os.Stdout.Fd())
	ui := newUI(color)
	prompt := console.NewPrompter(os.Stdin, os.Stdout)
	creds := auth.New(afero.NewOsFs(), cfg.CredentialsPath)

	session, err := menu.Login(ui, prompt, creds)
	if err != nil {
		log.Info("login did not succeed", slog.String("error", err.Error()))
		ui.Output("\nLogin failed. Exiting...")
		return
	}

	// ── 5. Menu Loop ──────────────────────────────────────────────────────
	if err := menu.New(ui, prompt, store, menu.Colorize(color)).Run(session); err != nil {
		log.Error("session ended with an error",
			slog.String("error", err.Error()))
	}

	log.Info("student-records stopped")
}

// newStorage opens the backend selected by cfg.StorageType. The returned
// close func must be called before exit.
func newStorage(cfg *config.Config) (storage.Storage, func() error, error) {
	switch cfg.StorageType {
	case config.StorageSQLite:
		db, err := sqlite.New(cfg)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case config.StorageFile, "":
		return flatfile.New(afero.NewOsFs(), cfg.StoragePath), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage type %q", cfg.StorageType)
	}
}

// newUI returns the console Ui. Warnings and errors go to stderr, in
// colour when enabled.
func newUI(color bool) cli.Ui {
	var ui cli.Ui = &cli.BasicUi{
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
		Reader:      os.Stdin,
	}
	if !color {
		return ui
	}

	return &cli.ColoredUi{
		OutputColor: cli.UiColorNone,
		InfoColor:   cli.UiColorGreen,
		ErrorColor:  cli.UiColorRed,
		WarnColor:   cli.UiColorYellow,
		Ui:          ui,
	}
}

// openLog opens the log destination. "-" selects stderr.
func openLog(path string) (io.Writer, func() error, error) {
	if path == "-" {
		return os.Stderr, func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string, w io.Writer) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{
				Level: slog.LevelInfo, // INFO and above in production
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{
				Level: slog.LevelDebug, // more verbose in staging
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(w, &slog.HandlerOptions{
				Level: slog.LevelDebug, // all levels in development
			}),
		)
	}
}
