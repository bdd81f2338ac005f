package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewEndCommand creates the end command.
func NewEndCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "end",
		Short: "End the current game",
		Long: `End the current game without a winner.

A game with at least one round is archived to history. A game with
no rounds is discarded.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnd(rootOpts, cmd)
		},
	}

	return cmd
}

func runEnd(opts *RootOptions, cmd *cobra.Command) error {
	return withSession(opts, cmd, func(ctx context.Context, s *session) error {
		var view endView
		if g, ok := s.engine.CurrentGame(); ok {
			view.GameID = g.ID
			view.Rounds = g.RoundCount()
		}

		view.Outcome = s.engine.ResetGame(ctx).String()
		return s.out.Success(view)
	})
}
