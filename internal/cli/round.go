package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/input"
)

// NewRoundCommand creates the round command.
func NewRoundCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "round PLAYER=SCORE...",
		Short: "Add a round to the current game",
		Long: `Add one round of points to the current game.

PLAYER is a player's name, id, or unique id prefix. SCORE is a
non-negative number with at most one decimal place. Players left out
of the round score zero, but at least one score must be given.

When a player reaches the target the game is completed, the winner
is announced, and the game moves to history.

Examples:
  tally round Ana=25 Ben=10
  tally round Ana=12.5
  tally round "Mary Jo=30"`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRound(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runRound(opts *RootOptions, args []string, cmd *cobra.Command) error {
	return withSession(opts, cmd, func(ctx context.Context, s *session) error {
		current, ok := s.engine.CurrentGame()
		if !ok {
			return noGameError()
		}

		scores, err := input.RoundScores(current, args)
		if err != nil {
			return InputError(err)
		}

		g, ok := s.engine.AddRound(ctx, scores)
		if !ok {
			return noGameError()
		}
		s.out.VerboseLog("Round %d recorded for game %s", g.RoundCount(), shortID(g.ID))

		board := newBoardView(g)
		if g.Completed {
			board = newStandingsView(g)
		}
		board.Digest = s.digest()
		return s.out.Success(board)
	})
}
