package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/config"
	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/model"
	"github.com/roach88/tally/internal/store"
)

// session is one command's view of the score database.
type session struct {
	cfg     config.Config
	backend store.Backend
	journal store.Journal // nil when the backend keeps no journal
	engine  *engine.Engine
	logger  *slog.Logger
	out     *OutputFormatter
}

// openSession resolves configuration, opens the configured backend and
// loads the engine. The caller must call close.
func openSession(ctx context.Context, opts *RootOptions, cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err).WithCode(ErrCodeConfig)
	}
	if opts.Database != "" {
		cfg.Path = opts.Database
	}

	// Set up logging to stderr
	level := cfg.Level()
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	path := cfg.ResolvedPath()
	backend, err := store.OpenBackend(cfg.Backend, path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to open %s database %s", cfg.Backend, path), err).WithCode(ErrCodeStorage)
	}
	logger.Debug("database opened", "backend", cfg.Backend, "path", path)

	engineOpts := []engine.Option{
		engine.WithSlotKey(cfg.SlotKey),
		engine.WithDefaultTarget(cfg.DefaultTarget),
		engine.WithLogger(logger),
	}
	journal, _ := backend.(store.Journal)
	if journal != nil {
		engineOpts = append(engineOpts, engine.WithJournal(journal))
	}
	if opts.IDs != nil {
		engineOpts = append(engineOpts, engine.WithIDGenerator(opts.IDs))
	}
	if opts.Now != nil {
		engineOpts = append(engineOpts, engine.WithTimeSource(opts.Now))
	}

	eng := engine.New(ctx, store.NewAdapter(backend, logger), engineOpts...)

	return &session{
		cfg:     cfg,
		backend: backend,
		journal: journal,
		engine:  eng,
		logger:  logger,
		out: &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   opts.Verbose,
		},
	}, nil
}

func (s *session) close() {
	if err := s.backend.Close(); err != nil {
		s.logger.Warn("failed to close database", "error", err)
	}
}

// withSession opens a session, runs fn and closes the session.
func withSession(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := openSession(ctx, opts, cmd)
	if err != nil {
		return err
	}
	defer s.close()

	return fn(ctx, s)
}

// noGameError is returned by commands that need a game in progress.
func noGameError() *ExitError {
	return NewExitError(ExitFailure, "no game in progress (start one with: tally new NAME...)").WithCode(ErrCodeNoGame)
}

// digest returns the snapshot digest of the session's current state.
// A digest failure is logged and yields "".
func (s *session) digest() string {
	d, err := model.SnapshotDigest(s.engine.State())
	if err != nil {
		s.logger.Warn("snapshot digest failed", "error", err)
	}
	return d
}
