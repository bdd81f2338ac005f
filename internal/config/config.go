// Package config resolves tally's runtime settings.
//
// Values are layered in order: built-in defaults, an optional CUE file
// checked against the embedded #Config schema, then TALLY_* environment
// variables. Command-line flags are applied last by the CLI.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"github.com/caarlos0/env/v11"

	"github.com/roach88/tally/internal/model"
	"github.com/roach88/tally/internal/store"
)

//go:embed schema.cue
var schemaCUE string

// DefaultSlotKey matches engine.DefaultSlotKey.
const DefaultSlotKey = "dominoGameState"

// Config holds resolved settings.
type Config struct {
	Backend       string `json:"backend" env:"TALLY_BACKEND"`
	Path          string `json:"path" env:"TALLY_DB"`
	SlotKey       string `json:"slotKey" env:"TALLY_SLOT_KEY"`
	DefaultTarget int    `json:"defaultTarget" env:"TALLY_DEFAULT_TARGET"`
	LogLevel      string `json:"logLevel" env:"TALLY_LOG_LEVEL"`
}

// fileConfig mirrors #Config; nil means the field was omitted.
type fileConfig struct {
	Backend       *string `json:"backend"`
	Path          *string `json:"path"`
	SlotKey       *string `json:"slotKey"`
	DefaultTarget *int    `json:"defaultTarget"`
	LogLevel      *string `json:"logLevel"`
}

// Error reports an invalid configuration value.
type Error struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Backend:       store.KindSQLite,
		SlotKey:       DefaultSlotKey,
		DefaultTarget: model.DefaultTargetScore,
		LogLevel:      "info",
	}
}

// Load resolves configuration from defaults, the CUE file at path (if
// non-empty), and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.applyCUE(data, path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyCUE unifies data with #Config and copies the fields it sets.
func (c *Config) applyCUE(data []byte, filename string) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	file := ctx.CompileBytes(data, cue.Filename(filename))
	if err := file.Err(); err != nil {
		return formatCUEError(err)
	}

	unified := def.Unify(file)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}

	var fc fileConfig
	if err := unified.Decode(&fc); err != nil {
		return formatCUEError(err)
	}

	if fc.Backend != nil {
		c.Backend = *fc.Backend
	}
	if fc.Path != nil {
		c.Path = *fc.Path
	}
	if fc.SlotKey != nil {
		c.SlotKey = *fc.SlotKey
	}
	if fc.DefaultTarget != nil {
		c.DefaultTarget = *fc.DefaultTarget
	}
	if fc.LogLevel != nil {
		c.LogLevel = *fc.LogLevel
	}
	return nil
}

// applyEnv overrides fields whose TALLY_* variable is set.
func (c *Config) applyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks values that may have come from the environment or flags
// and so bypassed the CUE schema.
func (c Config) Validate() error {
	switch c.Backend {
	case store.KindSQLite, store.KindBolt:
	default:
		return &Error{Field: "backend", Message: fmt.Sprintf("unknown backend %q (want sqlite or bolt)", c.Backend)}
	}
	if c.SlotKey == "" {
		return &Error{Field: "slotKey", Message: "must not be empty"}
	}
	if c.DefaultTarget < 1 {
		return &Error{Field: "defaultTarget", Message: fmt.Sprintf("must be at least 1, got %d", c.DefaultTarget)}
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return &Error{Field: "logLevel", Message: err.Error()}
	}
	return nil
}

// ResolvedPath returns Path, or the backend's default file name.
func (c Config) ResolvedPath() string {
	if c.Path != "" {
		return c.Path
	}
	if c.Backend == store.KindBolt {
		return "tally.bolt"
	}
	return "tally.db"
}

// Level returns the slog level for LogLevel. Invalid values map to info.
func (c Config) Level() slog.Level {
	l, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &Error{Field: "cue", Message: first.Error(), Pos: positions[0]}
	}
	return &Error{Field: "cue", Message: first.Error()}
}
