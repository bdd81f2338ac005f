package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewUndoCommand creates the undo command.
func NewUndoCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Remove the last round of the current game",
		Long: `Remove the most recent round of the current game and subtract its
points from every player.

Completed games are already in history and cannot be undone.
With no round to remove, undo reports "Nothing to undo." and
changes nothing.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUndo(rootOpts, cmd)
		},
	}

	return cmd
}

func runUndo(opts *RootOptions, cmd *cobra.Command) error {
	return withSession(opts, cmd, func(ctx context.Context, s *session) error {
		if !s.engine.UndoLastRound(ctx) {
			return s.out.Success(undoView{Undone: false})
		}

		g, _ := s.engine.CurrentGame()
		board := newBoardView(g)
		board.Digest = s.digest()
		return s.out.Success(undoView{Undone: true, Board: &board})
	})
}
