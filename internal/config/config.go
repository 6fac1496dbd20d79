// Package config handles loading and parsing application configuration.
// It supports three sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//  3. Nothing at all: every field falls back to its env var or default,
//     so the tool runs out of the box next to student.txt and
//     credentials.txt.
//
// A .env file in the working directory, when present, is loaded into the
// environment first. Variables already set in the real environment win
// over the ones in .env.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev" validate:"oneof=dev staging prod"`

	// StorageType picks the student store backend: "file" (the
	// pipe-delimited text file) or "sqlite".
	StorageType string `yaml:"storage_type" env:"STORAGE_TYPE" env-default:"file" validate:"oneof=file sqlite"`

	// StoragePath is the student store location: the text file, or the
	// SQLite .db file when StorageType is "sqlite".
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"student.txt" validate:"required"`

	// CredentialsPath is the "username password role" table used at login.
	CredentialsPath string `yaml:"credentials_path" env:"CREDENTIALS_PATH" env-default:"credentials.txt" validate:"required"`

	// LogPath is where structured logs are written. "-" means stderr.
	// Logs never go to stdout, which belongs to the interactive console.
	LogPath string `yaml:"log_path" env:"LOG_PATH" env-default:"student-records.log" validate:"required"`

	// NoColor disables coloured menus and messages. Colour is only ever
	// used when stdout is a terminal. The conventional NO_COLOR variable
	// (any non-empty value) is honoured as well; see ColorDisabled.
	NoColor bool `yaml:"no_color" env:"STUDENT_RECORDS_NO_COLOR"`
}

// ColorDisabled reports whether colour output is switched off, either by
// no_color in the config or by a non-empty NO_COLOR in the environment.
func (c *Config) ColorDisabled() bool {
	return c.NoColor || os.Getenv("NO_COLOR") != ""
}

// Load reads the config from the YAML file at path, or from the
// environment and defaults alone when path is empty, and validates it.
func Load(path string) (*Config, error) {
	// A missing .env is the normal case, not an error.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env: %w", err)
		}
	} else {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// MustLoad reads, validates, and returns the application config.
//
// The name "MustLoad" follows a Go convention: functions prefixed with
// "Must" are allowed to panic/fatal on failure. Callers do not need to
// check a returned error: if this function returns, the config is valid.
func MustLoad() *Config {
	// ── Source 1: environment variable ───────────────────────────────
	configPath := os.Getenv("CONFIG_PATH")

	// ── Source 2: command-line flag ───────────────────────────────────
	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	// ── Source 3: environment + defaults (configPath may be "") ──────
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %s", err.Error())
	}

	return cfg
}
