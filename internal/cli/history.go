package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/model"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [GAME-ID]",
		Short: "List archived games",
		Long: `List archived games, most recent first, with date, player count,
target and winner.

Given a game id (or a unique prefix of one), show that game's final
standings and the game's digest instead.

Examples:
  tally history
  tally history 0190a3c2`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			return runHistory(rootOpts, ref, cmd)
		},
	}

	return cmd
}

func runHistory(opts *RootOptions, ref string, cmd *cobra.Command) error {
	return withSession(opts, cmd, func(ctx context.Context, s *session) error {
		state := s.engine.State()

		if ref != "" {
			g, ok := state.FindGame(ref)
			if !ok {
				return NewExitError(ExitFailure, fmt.Sprintf("no game matches %q", ref)).WithCode(ErrCodeNotFound)
			}
			board := newStandingsView(g)
			if d, err := model.GameDigest(g); err == nil {
				board.Digest = d
			} else {
				s.logger.Warn("game digest failed", "game", g.ID, "error", err)
			}
			return s.out.Success(board)
		}

		view := historyView{Games: make([]gameSummary, 0, len(state.GameHistory))}
		for _, g := range state.GameHistory {
			view.Games = append(view.Games, newGameSummary(g))
		}
		return s.out.Success(view)
	})
}
