package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/input"
)

// NewOptions holds flags for the new command.
type NewOptions struct {
	*RootOptions
	Target string // raw target score, validated by input.TargetScore
	Force  bool   // end a game in progress first
}

// NewNewCommand creates the new command.
func NewNewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NewOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "new NAME...",
		Short: "Start a new game",
		Long: `Start a new game between two to four players.

Names are trimmed and must be unique, at most 20 characters each.
The target score defaults to the configured defaultTarget (100).

A game already in progress is not replaced unless --force is given,
in which case it is ended first: archived if it has rounds, discarded
otherwise.

Examples:
  tally new Ana Ben
  tally new Ana Ben Cleo --target 150
  tally new Ana Ben --force`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Target, "target", "", "target score (default from config)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "end the game in progress before starting")

	return cmd
}

func runNew(opts *NewOptions, args []string, cmd *cobra.Command) error {
	names, err := input.Names(args)
	if err != nil {
		return InputError(err)
	}

	return withSession(opts.RootOptions, cmd, func(ctx context.Context, s *session) error {
		target, err := input.TargetScore(opts.Target, s.cfg.DefaultTarget)
		if err != nil {
			return InputError(err)
		}

		if current, ok := s.engine.CurrentGame(); ok {
			if !opts.Force {
				return NewExitError(ExitFailure, fmt.Sprintf(
					"game %s is in progress (%d round(s)); run 'tally end' or pass --force",
					shortID(current.ID), current.RoundCount())).WithCode(ErrCodeGameInProgress)
			}
			outcome := s.engine.ResetGame(ctx)
			s.out.VerboseLog("Ended game %s: %s", shortID(current.ID), outcome)
		}

		g := s.engine.CreateGame(ctx, names, target)
		s.out.VerboseLog("Started game %s: %s", g.ID, joinNames(g.Players))

		board := newBoardView(g)
		board.Digest = s.digest()
		return s.out.Success(board)
	})
}
