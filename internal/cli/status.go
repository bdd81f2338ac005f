package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current game",
		Long: `Show the current game's board: target, rounds played, each player's
score and points still needed, and the current leader.

The digest identifies the full saved state; two databases with the
same digest hold the same games.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(rootOpts, cmd)
		},
	}

	return cmd
}

func runStatus(opts *RootOptions, cmd *cobra.Command) error {
	return withSession(opts, cmd, func(ctx context.Context, s *session) error {
		state := s.engine.State()
		view := statusView{
			HistoryCount: len(state.GameHistory),
			Digest:       s.digest(),
		}
		if state.CurrentGame != nil {
			board := newBoardView(*state.CurrentGame)
			view.CurrentGame = &board
		}
		return s.out.Success(view)
	})
}
